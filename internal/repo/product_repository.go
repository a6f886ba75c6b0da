package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Exists(ctx context.Context, filter ProductFilter) (bool, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	Add(ctx context.Context, product models.Product) (models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
}
