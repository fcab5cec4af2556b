package server

import (
	"smakosz/internal/models"
	"smakosz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTopLevelComments handles GET /api/publications/:id/comments
func (s *Server) GetTopLevelComments(c *fiber.Ctx) error {
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.TopLevelComments(c.Context(), publicationID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// GetRecentComments handles GET /api/comments/recent?type=post|product&limit=N
func (s *Server) GetRecentComments(c *fiber.Ctx) error {
	kind := c.Query("type", service.OwnerKindPost)
	limit := c.QueryInt("limit", 10)

	comments, err := s.commentService.RecentComments(c.Context(), kind, limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/publications/:id/comments.
// Works for both logged-in users and guests; guests may pass guest_name.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body         string `json:"body"`
		GuestName    string `json:"guest_name"`
		ResponseToID *uint  `json:"response_to_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreateCommentInput{
		PublicationID: publicationID,
		Body:          req.Body,
		GuestName:     req.GuestName,
		ParentID:      req.ResponseToID,
	}
	if userID, ok := optionalUserID(c); ok {
		in.UserID = &userID
	}

	comment, err := s.commentService.CreateComment(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.EditComment(c.Context(), service.EditCommentInput{
		UserID:    mustUserID(c),
		CommentID: commentID,
		Body:      req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    mustUserID(c),
		CommentID: commentID,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApproveComment handles POST /api/comments/:id/approve
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.ApproveComment(c.Context(), mustUserID(c), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}
