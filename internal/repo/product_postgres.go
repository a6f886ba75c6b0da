package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const (
	queryTimeout = 3 * time.Second

	pgUniqueViolation = "23505"
)

// constraintFields maps schema constraint names to the fields they protect.
var constraintFields = map[string]string{
	"products_pkey":           "id",
	"products_sku_key":        "sku",
	"products_name_brand_key": "name,brand",
}

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Exists(ctx context.Context, filter ProductFilter) (bool, error) {
	conditions, args := filterConditions(filter)
	query := `SELECT EXISTS (SELECT 1 FROM products WHERE 1=1` + conditions + `)`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresProductRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE created_at >= $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, query, since.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

func (r *PostgresProductRepository) Add(ctx context.Context, p models.Product) (models.Product, error) {
	query := `
		INSERT INTO products (id, name, brand, sku, category, price, release_date, image_url, stock_quantity, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	imageURL := sql.NullString{String: p.ImageURL, Valid: p.ImageURL != ""}
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Brand, p.SKU, string(p.Category), p.Price,
		p.ReleaseDate.UTC(), imageURL, p.StockQuantity, p.IsAvailable,
		p.CreatedAt.UTC(), p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			field, ok := constraintFields[pgErr.ConstraintName]
			if !ok {
				field = pgErr.ConstraintName
			}
			logging.FromContext(ctx).Warn("unique constraint violated on insert",
				zap.String("constraint", pgErr.ConstraintName))
			return models.Product{}, &DuplicateKeyError{Field: field}
		}
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := `
		SELECT id, name, brand, sku, category, price, release_date, image_url, stock_quantity, is_available, created_at, updated_at
		FROM products WHERE id = $1
	`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		p         models.Product
		category  string
		imageURL  sql.NullString
		updatedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Brand, &p.SKU, &category, &p.Price,
		&p.ReleaseDate, &imageURL, &p.StockQuantity, &p.IsAvailable,
		&p.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}

	p.Category = models.Category(category)
	p.ImageURL = imageURL.String
	p.ReleaseDate = p.ReleaseDate.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		p.UpdatedAt = &t
	}
	return p, nil
}

func filterConditions(pf ProductFilter) (string, []any) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.SKU != "" {
		query += fmt.Sprintf(" AND sku = $%d", argIdx)
		args = append(args, pf.SKU)
		argIdx++
	}
	if pf.Name != "" {
		query += fmt.Sprintf(" AND name = $%d", argIdx)
		args = append(args, pf.Name)
		argIdx++
	}
	if pf.Brand != "" {
		query += fmt.Sprintf(" AND brand = $%d", argIdx)
		args = append(args, pf.Brand)
	}

	return query, args
}
