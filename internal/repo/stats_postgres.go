package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

type PostgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

func (r *PostgresStatsRepository) GetCatalogStats(ctx context.Context, dayStart time.Time) (CatalogStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	s := newCatalogStats()
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= $1),
			COUNT(*) FILTER (WHERE NOT is_available)
		FROM products
	`, dayStart.UTC()).Scan(&s.TotalProducts, &s.CreatedToday, &s.OutOfStock)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("catalog totals: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM products GROUP BY category`)
	if err != nil {
		return CatalogStats{}, fmt.Errorf("catalog categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			category string
			count    int
		)
		if err := rows.Scan(&category, &count); err != nil {
			return CatalogStats{}, err
		}
		s.ByCategory[models.Category(category)] = count
	}
	return s, rows.Err()
}
