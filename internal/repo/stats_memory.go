package repo

import (
	"context"
	"time"
)

type InMemoryStatsRepository struct {
	productRepo *InMemoryProductRepository
}

func NewInMemoryStatsRepository(productRepo *InMemoryProductRepository) *InMemoryStatsRepository {
	return &InMemoryStatsRepository{productRepo: productRepo}
}

// GetCatalogStats implements StatsRepository.
func (i *InMemoryStatsRepository) GetCatalogStats(ctx context.Context, dayStart time.Time) (CatalogStats, error) {
	if err := ctx.Err(); err != nil {
		return CatalogStats{}, err
	}
	s := newCatalogStats()
	for _, p := range i.productRepo.All() {
		s.TotalProducts++
		if !p.CreatedAt.Before(dayStart) {
			s.CreatedToday++
		}
		if !p.IsAvailable {
			s.OutOfStock++
		}
		s.ByCategory[p.Category]++
	}
	return s, nil
}
