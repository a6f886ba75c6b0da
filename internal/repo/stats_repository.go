package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// CatalogStats is the aggregate view served on the dashboard.
type CatalogStats struct {
	TotalProducts int                     `json:"total_products"`
	CreatedToday  int                     `json:"created_today"`
	OutOfStock    int                     `json:"out_of_stock"`
	ByCategory    map[models.Category]int `json:"by_category"`
}

type StatsRepository interface {
	GetCatalogStats(ctx context.Context, dayStart time.Time) (CatalogStats, error)
}

func newCatalogStats() CatalogStats {
	byCategory := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		byCategory[c] = 0
	}
	return CatalogStats{ByCategory: byCategory}
}
