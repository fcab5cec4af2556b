package server

import (
	"errors"

	"smakosz/internal/cart"
	"smakosz/internal/models"

	"github.com/gofiber/fiber/v2"
)

// cartEngine builds the per-request cart over the store matching the
// caller: logged-in shoppers get the database row, guests the Redis key
// behind their session cookie.
func (s *Server) cartEngine(c *fiber.Ctx) (*cart.Engine, error) {
	if userID, ok := optionalUserID(c); ok {
		return cart.New(cart.NewDBStore(s.shopperRepo, userID), s.catalog), nil
	}
	if sid, ok := c.Locals("sessionID").(string); ok && sid != "" {
		return cart.New(cart.NewSessionStore(s.redis, sid, s.sessionTTL()), s.catalog), nil
	}
	return nil, models.NewInternalError(errors.New("no cart identity resolved for request"))
}

type cartLine struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (s *Server) renderCart(c *fiber.Ctx, engine *cart.Engine) error {
	lines, err := engine.Lines(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	total, err := engine.TotalPrice(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	length, err := engine.Len(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]cartLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, cartLine{
			ItemID:   l.ItemID,
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}

	return c.JSON(fiber.Map{
		"items":       items,
		"total_price": total,
		"length":      length,
	})
}

// GetCart handles GET /api/cart
func (s *Server) GetCart(c *fiber.Ctx) error {
	engine, err := s.cartEngine(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.renderCart(c, engine)
}

// AddCartItem handles POST /api/cart/items
func (s *Server) AddCartItem(c *fiber.Ctx) error {
	var req struct {
		ItemID   string `json:"item_id"`
		Kind     string `json:"kind"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Kind == "" {
		req.Kind = models.ProductKind
	}

	engine, err := s.cartEngine(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := engine.Add(c.Context(), req.ItemID, req.Kind, req.Quantity); err != nil {
		return respondServiceError(c, err)
	}
	return s.renderCart(c, engine)
}

// UpdateCartItem handles PUT /api/cart/items/:itemId.
// A zero quantity removes the line.
func (s *Server) UpdateCartItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	if itemID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid item ID"))
	}

	var req struct {
		Kind     string `json:"kind"`
		Quantity int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Kind == "" {
		req.Kind = models.ProductKind
	}

	engine, err := s.cartEngine(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := engine.Update(c.Context(), itemID, req.Kind, req.Quantity); err != nil {
		return respondServiceError(c, err)
	}
	return s.renderCart(c, engine)
}

// DeleteCartItem handles DELETE /api/cart/items/:itemId
func (s *Server) DeleteCartItem(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	if itemID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid item ID"))
	}

	kind := c.Query("kind", models.ProductKind)

	engine, err := s.cartEngine(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := engine.Delete(c.Context(), itemID, kind); err != nil {
		return respondServiceError(c, err)
	}
	return s.renderCart(c, engine)
}

// ResetCart handles DELETE /api/cart
func (s *Server) ResetCart(c *fiber.Ctx) error {
	engine, err := s.cartEngine(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := engine.Reset(c.Context()); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
