package cart

import (
	"context"
	"errors"
	"strconv"

	"smakosz/internal/models"
	"smakosz/internal/repository"

	"gorm.io/gorm"
)

// ProductCatalog resolves cart references against the shop product table.
// `kind` is an open discriminator; products are the only supported kind today
// and anything else fails with "Unsupported model".
type ProductCatalog struct {
	products repository.ProductRepository
}

// NewProductCatalog creates a Catalog over the product repository.
func NewProductCatalog(products repository.ProductRepository) *ProductCatalog {
	return &ProductCatalog{products: products}
}

// Snapshot implements Catalog.
func (c *ProductCatalog) Snapshot(ctx context.Context, itemID, kind string) (string, float64, error) {
	if kind != models.ProductKind {
		return "", 0, models.NewInvalidArgumentError("Unsupported model")
	}

	id, err := strconv.ParseUint(itemID, 10, 32)
	if err != nil || id == 0 {
		return "", 0, models.NewNotFoundError("Product", itemID)
	}

	product, err := c.products.GetByID(ctx, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", 0, models.NewNotFoundError("Product", itemID)
	}
	if err != nil {
		return "", 0, err
	}

	return product.Name, product.Price, nil
}
