package services

import (
	"context"
	"fmt"
)

// GetAllProductsService implements GetAllProducts.
type GetAllProductsService struct {
	repo ProductRepository
}

func NewGetAllProducts(repo ProductRepository) *GetAllProductsService {
	return &GetAllProductsService{repo: repo}
}

// Execute returns every product. An empty catalog is not an error.
func (s *GetAllProductsService) Execute(ctx context.Context) ([]ProductOutput, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get all products: %w", err)
	}
	return ToOutputs(products), nil
}

// GetProductByCodeService implements GetProductByCode.
type GetProductByCodeService struct {
	repo ProductRepository
}

func NewGetProductByCode(repo ProductRepository) *GetProductByCodeService {
	return &GetProductByCodeService{repo: repo}
}

func (s *GetProductByCodeService) Execute(ctx context.Context, code string) (ProductOutput, error) {
	product, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return ProductOutput{}, fmt.Errorf("get product %q: %w", code, err)
	}
	if product == nil {
		return ProductOutput{}, &ProductNotFoundError{Code: code}
	}
	return ToOutput(product), nil
}
