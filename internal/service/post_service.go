package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smakosz/internal/models"
	"smakosz/internal/repository"
	"smakosz/internal/slug"

	"gorm.io/gorm"
)

// PostService manages blog-style reviews and their discussion anchors.
type PostService struct {
	postRepo        repository.PostRepository
	publicationRepo repository.PublicationRepository
	userRepo        repository.UserRepository
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Body     string
	ImageURL string
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Body     string
	ImageURL string
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repository.PostRepository,
	publicationRepo repository.PublicationRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:        postRepo,
		publicationRepo: publicationRepo,
		userRepo:        userRepo,
	}
}

// CreatePost persists a review and implicitly attaches a fresh publication,
// matching the rule that an owning entity saved without a publication gains
// one. Staff only.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !author.CanModerate() {
		return nil, models.NewUnauthorizedError("Only staff can publish reviews")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Title and body are required")
	}

	pub := &models.Publication{}
	if err := s.publicationRepo.Create(ctx, pub); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:         title,
		Slug:          s.uniqueSlug(ctx, title),
		Body:          in.Body,
		ImageURL:      in.ImageURL,
		AuthorID:      in.AuthorID,
		PublicationID: &pub.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

// uniqueSlug derives a slug from the title, suffixing a counter on collision.
func (s *PostService) uniqueSlug(ctx context.Context, title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "post"
	}
	candidate := base
	for i := 2; ; i++ {
		_, err := s.postRepo.GetBySlug(ctx, candidate, 0)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate
		}
		if err != nil {
			// On lookup failure fall back to the base; the unique index is
			// the final arbiter.
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// GetPost returns a post by slug with like state for the current user.
func (s *PostService) GetPost(ctx context.Context, postSlug string, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postSlug, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postSlug)
		}
		return nil, err
	}
	return post, nil
}

// ListPosts returns reviews, newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

// UpdatePost edits title/body/image; author or staff only. The slug is kept
// stable so existing links survive edits.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	editor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID && !editor.CanModerate() {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return nil, models.NewValidationError("Title and body are required")
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Body = in.Body
	post.ImageURL = in.ImageURL
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes the post and explicitly deletes its publication (and so
// its comment tree). Author or staff only.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && !actor.CanModerate() {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	if post.PublicationID != nil {
		return s.publicationRepo.Delete(ctx, *post.PublicationID)
	}
	return nil
}

// LikeResult is the payload returned to the front end after a like toggle.
type LikeResult struct {
	URL               string `json:"url"`
	Liked             bool   `json:"liked"`
	LikesStatsDisplay string `json:"likes_stats_display"`
}

// LikePost records the user's like; liking twice is a no-op.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.likeResult(ctx, userID, postID)
}

// UnlikePost removes the user's like if present.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.likeResult(ctx, userID, postID)
}

func (s *PostService) likeResult(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	display := fmt.Sprintf("%d likes", post.LikesCount)
	if post.LikesCount == 1 {
		display = "1 like"
	}
	return &LikeResult{
		URL:               "/posts/" + post.Slug,
		Liked:             post.Liked,
		LikesStatsDisplay: display,
	}, nil
}
