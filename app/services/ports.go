package services

import (
	"context"

	"github.com/shashiranjanraj/catalog/app/models"
)

// ProductRepository is the store the use cases depend on.
// FindByCode returns (nil, nil) when no product has the code.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]*models.Product, error)
	FindByCode(ctx context.Context, code string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
}

// GetAllProducts lists the catalog.
type GetAllProducts interface {
	Execute(ctx context.Context) ([]ProductOutput, error)
}

// GetProductByCode looks up one product and fails with
// *ProductNotFoundError when it does not exist.
type GetProductByCode interface {
	Execute(ctx context.Context, code string) (ProductOutput, error)
}

// SeedProducts fills an empty store with the demo catalog.
type SeedProducts interface {
	Execute(ctx context.Context) error
}
