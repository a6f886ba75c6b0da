package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same uniqueness constraints as the Postgres schema.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
	}
}

func (r *InMemoryProductRepository) Exists(ctx context.Context, filter ProductFilter) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if filter.matches(p) {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryProductRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, p := range r.products {
		if !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// Add stores the product, rejecting duplicate SKUs and name+brand pairs.
func (r *InMemoryProductRepository) Add(ctx context.Context, product models.Product) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return models.Product{}, &DuplicateKeyError{Field: "sku"}
		}
		if p.Name == product.Name && p.Brand == product.Brand {
			return models.Product{}, &DuplicateKeyError{Field: "name,brand"}
		}
	}
	r.products = append(r.products, product)
	return product, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// All returns a snapshot of the stored products.
func (r *InMemoryProductRepository) All() []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out
}
