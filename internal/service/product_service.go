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

// ProductService manages the shop catalog and the discussion anchor attached
// to each product.
type ProductService struct {
	productRepo     repository.ProductRepository
	publicationRepo repository.PublicationRepository
	userRepo        repository.UserRepository
}

type CreateProductInput struct {
	UserID      uint
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Available   bool
}

type UpdateProductInput struct {
	UserID      uint
	ProductID   uint
	Name        string
	Description string
	Price       float64
	ImageURL    string
	Available   bool
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	publicationRepo repository.PublicationRepository,
	userRepo repository.UserRepository,
) *ProductService {
	return &ProductService{
		productRepo:     productRepo,
		publicationRepo: publicationRepo,
		userRepo:        userRepo,
	}
}

func (s *ProductService) requireStaff(ctx context.Context, userID uint) error {
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !actor.CanModerate() {
		return models.NewUnauthorizedError("Only staff can manage the catalog")
	}
	return nil
}

// CreateProduct persists a catalog item with a fresh publication attached.
// Staff only.
func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := s.requireStaff(ctx, in.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price must not be negative")
	}

	pub := &models.Publication{}
	if err := s.publicationRepo.Create(ctx, pub); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          name,
		Slug:          s.uniqueSlug(ctx, name),
		Description:   in.Description,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		Available:     in.Available,
		PublicationID: &pub.ID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) uniqueSlug(ctx context.Context, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "product"
	}
	candidate := base
	for i := 2; ; i++ {
		_, err := s.productRepo.GetBySlug(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate
		}
		if err != nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// GetProduct returns a product by slug.
func (s *ProductService) GetProduct(ctx context.Context, productSlug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Product", productSlug)
		}
		return nil, err
	}
	return product, nil
}

// ListProducts returns catalog items, newest first. Non-staff callers only
// see available items.
func (s *ProductService) ListProducts(ctx context.Context, limit, offset int, includeUnavailable bool) ([]*models.Product, error) {
	return s.productRepo.List(ctx, limit, offset, !includeUnavailable)
}

// UpdateProduct edits catalog fields. The price change does not touch
// existing cart lines: those keep their add-time snapshot. Staff only.
func (s *ProductService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	if err := s.requireStaff(ctx, in.UserID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Product", in.ProductID)
		}
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.Price < 0 {
		return nil, models.NewValidationError("Price must not be negative")
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.ImageURL = in.ImageURL
	product.Available = in.Available
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product and explicitly deletes its publication
// together with the attached comment tree. Staff only.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	if err := s.requireStaff(ctx, userID); err != nil {
		return err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Product", productID)
		}
		return err
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	if product.PublicationID != nil {
		return s.publicationRepo.Delete(ctx, *product.PublicationID)
	}
	return nil
}
