package server

import (
	"smakosz/internal/models"
	"smakosz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProducts handles GET /api/products
func (s *Server) GetProducts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	// Unavailable items only show up for staff asking for them.
	includeUnavailable := false
	if c.QueryBool("include_unavailable", false) {
		if userID, ok := optionalUserID(c); ok {
			user, err := s.userRepo.GetByID(c.Context(), userID)
			if err == nil && user.CanModerate() {
				includeUnavailable = true
			}
		}
	}

	products, err := s.productService.ListProducts(c.Context(), p.Limit, p.Offset, includeUnavailable)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"limit":    p.Limit,
		"offset":   p.Offset,
	})
}

// GetProduct handles GET /api/products/:slug
func (s *Server) GetProduct(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	product, err := s.productService.GetProduct(c.Context(), slug)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// CreateProduct handles POST /api/products
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
		Available   bool    `json:"available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.CreateProduct(c.Context(), service.CreateProductInput{
		UserID:      mustUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /api/products/:id
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
		Available   bool    `json:"available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.UpdateProduct(c.Context(), service.UpdateProductInput{
		UserID:      mustUserID(c),
		ProductID:   productID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Available:   req.Available,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/products/:id
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	productID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.productService.DeleteProduct(c.Context(), mustUserID(c), productID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
