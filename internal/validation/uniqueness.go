package validation

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

// Checker answers the existence questions the business rules depend on.
type Checker interface {
	SKUExists(ctx context.Context, sku string) (bool, error)
	NameBrandExists(ctx context.Context, name, brand string) (bool, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// UniquenessChecker reads committed repository state on every call. A race
// window remains between a check and the eventual write; the repository's
// own constraints close it.
type UniquenessChecker struct {
	repo repo.ProductRepository
}

func NewUniquenessChecker(r repo.ProductRepository) *UniquenessChecker {
	return &UniquenessChecker{repo: r}
}

func (c *UniquenessChecker) SKUExists(ctx context.Context, sku string) (bool, error) {
	return c.repo.Exists(ctx, repo.ProductFilter{SKU: sku})
}

func (c *UniquenessChecker) NameBrandExists(ctx context.Context, name, brand string) (bool, error) {
	return c.repo.Exists(ctx, repo.ProductFilter{Name: name, Brand: brand})
}

func (c *UniquenessChecker) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return c.repo.CountSince(ctx, since)
}
