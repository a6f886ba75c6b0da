package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	repo "github.com/rogerio-castellano/product-catalog/internal/repo"
)

// ProductService is the intake pipeline consumed by the handlers.
type ProductService interface {
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (models.ProductProfile, error)
	GetProduct(ctx context.Context, id string) (models.ProductProfile, error)
}

var (
	productService ProductService
	statsRepo      repo.StatsRepository
	clock          = time.Now
)

func SetProductService(s ProductService) {
	productService = s
}

func SetStatsRepo(r repo.StatsRepository) {
	statsRepo = r
}

// SetClock overrides the clock used to find the start of the current day.
func SetClock(c func() time.Time) {
	if c == nil {
		c = time.Now
	}
	clock = c
}
