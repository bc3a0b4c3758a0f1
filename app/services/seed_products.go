package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// SeedProductsService inserts a fixed product list into an empty store.
type SeedProductsService struct {
	repo ProductRepository
	seed []models.ProductData
	log  *slog.Logger
}

// NewSeedProducts seeds repo with a copy of seed. A nil log uses logger.L.
func NewSeedProducts(repo ProductRepository, seed []models.ProductData, log *slog.Logger) *SeedProductsService {
	if log == nil {
		log = logger.L
	}
	cp := make([]models.ProductData, len(seed))
	for i, d := range seed {
		cp[i] = d.Clone()
	}
	return &SeedProductsService{repo: repo, seed: cp, log: log}
}

// Execute is a no-op when any product exists. Otherwise products are created
// one by one in list order; the first failure stops the run and is returned,
// leaving earlier inserts in place.
func (s *SeedProductsService) Execute(ctx context.Context) error {
	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("error seeding database", logger.Err(err))
		return fmt.Errorf("seed products: %w", err)
	}
	if len(existing) > 0 {
		s.log.Info("database already contains products, skipping seed", "count", len(existing))
		return nil
	}

	s.log.Info("database is empty, seeding with demo data", "count", len(s.seed))
	for _, data := range s.seed {
		if _, err := s.repo.Create(ctx, models.NewProduct(data)); err != nil {
			s.log.Error("error seeding database", "code", data.Code, logger.Err(err))
			return fmt.Errorf("seed product %q: %w", data.Code, err)
		}
		metrics.ProductsSeeded.Inc()
	}

	s.log.Info("seeded products", "count", len(s.seed))
	return nil
}
