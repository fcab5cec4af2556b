// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"smakosz/internal/featureflags"
	"smakosz/internal/models"
	"smakosz/internal/observability"
	"smakosz/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// Owner kinds accepted by RecentComments.
const (
	OwnerKindPost    = "post"
	OwnerKindProduct = "product"
)

// TrustedCommentsFlag gates the gradual rollout that lets logged-in users'
// comments skip the moderation queue.
const TrustedCommentsFlag = "trusted_comments"

// CommentService maintains the moderated, threaded discussion tree attached
// to a publication, independent of which content type owns the thread.
type CommentService struct {
	commentRepo     repository.CommentRepository
	publicationRepo repository.PublicationRepository
	userRepo        repository.UserRepository
	flags           *featureflags.Manager
}

// CreateCommentInput carries a new comment. Exactly one of UserID / GuestName
// identifies the author; a nil UserID with an empty GuestName falls back to
// the "guest" display name.
type CreateCommentInput struct {
	PublicationID uint
	Body          string
	UserID        *uint
	GuestName     string
	ParentID      *uint
}

type EditCommentInput struct {
	UserID    uint
	CommentID uint
	Body      string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	publicationRepo repository.PublicationRepository,
	userRepo repository.UserRepository,
	flags *featureflags.Manager,
) *CommentService {
	return &CommentService{
		commentRepo:     commentRepo,
		publicationRepo: publicationRepo,
		userRepo:        userRepo,
		flags:           flags,
	}
}

// CreateComment validates the threading invariants and persists the comment.
// Staff and superuser authors are published immediately; everyone else starts
// pending moderation.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.publicationRepo.GetByID(ctx, in.PublicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Publication", in.PublicationID)
		}
		return nil, err
	}

	comment := &models.Comment{
		PublicationID: in.PublicationID,
		Body:          body,
		Level:         models.CommentMinLevel,
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *in.ParentID)
			}
			return nil, err
		}
		if parent.PublicationID != in.PublicationID {
			return nil, models.NewValidationError("response_to and publication must be associated with the same publication")
		}
		if parent.Level >= models.CommentMaxLevel {
			return nil, models.NewValidationError("Reply depth limit reached")
		}
		comment.ResponseToID = in.ParentID
		comment.Level = parent.Level + 1
	}

	if in.UserID != nil {
		author, err := s.userRepo.GetByID(ctx, *in.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("User", *in.UserID)
			}
			return nil, err
		}
		// Logged authors always mirror their account e-mail and never keep a
		// guest name; staff comments skip the moderation queue.
		comment.LoggedUserID = &author.ID
		comment.Email = author.Email
		comment.UnloggedUser = ""
		comment.Active = author.CanModerate() ||
			s.flags.Enabled(TrustedCommentsFlag, author.ID)
	} else {
		guest := strings.TrimSpace(in.GuestName)
		if guest == "" {
			guest = models.GuestAuthor
		}
		comment.UnloggedUser = guest
		comment.Active = false
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	state := "pending"
	if comment.Active {
		state = "published"
	}
	observability.CommentsCreated.WithLabelValues(state).Inc()

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// EditComment replaces the body, leaving moderation and threading fields
// untouched. Only the owning user or staff may edit.
func (s *CommentService) EditComment(ctx context.Context, in EditCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.CommentID)
		}
		return nil, err
	}

	editor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	isOwner := comment.LoggedUserID != nil && *comment.LoggedUserID == in.UserID
	if !isOwner && !editor.CanModerate() {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Body is required")
	}

	comment.Body = body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes the comment and, explicitly, its whole reply subtree.
// Staff only.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if !actor.CanModerate() {
		return models.NewUnauthorizedError("Only staff can delete comments")
	}

	if _, err := s.commentRepo.GetByID(ctx, in.CommentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", in.CommentID)
		}
		return err
	}

	return s.deleteSubtree(ctx, in.CommentID)
}

// deleteSubtree walks the reply tree depth-first so engines without native
// FK cascade end up with the same state as the cascading schema.
func (s *CommentService) deleteSubtree(ctx context.Context, commentID uint) error {
	replies, err := s.commentRepo.ListReplies(ctx, commentID)
	if err != nil {
		return err
	}
	for _, reply := range replies {
		if err := s.deleteSubtree(ctx, reply.ID); err != nil {
			return err
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// ApproveComment publishes a pending comment. The transition is one-way:
// there is no path back to pending. Staff only.
func (s *CommentService) ApproveComment(ctx context.Context, userID, commentID uint) (*models.Comment, error) {
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, models.NewUnauthorizedError("Only staff can approve comments")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	if comment.Active {
		return comment, nil
	}

	comment.Active = true
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// TopLevelComments returns the publication's active root comments, newest first.
func (s *CommentService) TopLevelComments(ctx context.Context, publicationID uint) ([]*models.Comment, error) {
	if _, err := s.publicationRepo.GetByID(ctx, publicationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Publication", publicationID)
		}
		return nil, err
	}
	return s.commentRepo.ListTopLevel(ctx, publicationID)
}

// RecentComments returns the newest active comments attached to the given
// content kind ("post" or "product"). An unrecognized kind yields an empty
// result rather than an error.
func (s *CommentService) RecentComments(ctx context.Context, kind string, limit int) ([]*models.Comment, error) {
	var ownerTable string
	switch kind {
	case OwnerKindPost:
		ownerTable = "posts"
	case OwnerKindProduct:
		ownerTable = "products"
	default:
		return nil, nil
	}

	if limit <= 0 {
		limit = 10
	}
	return s.commentRepo.ListRecentByOwnerKind(ctx, ownerTable, limit)
}
