package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

// ProductRequest is the wire shape of a create request. Pointers and strings
// let the decoder tell omitted fields from zero values.
type ProductRequest struct {
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	ReleaseDate   string          `json:"releaseDate"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	StockQuantity *int            `json:"stockQuantity,omitempty"`
}

type ErrorResponse struct {
	Error  string                   `json:"error"`
	Rule   string                   `json:"rule,omitempty"`
	Field  string                   `json:"field,omitempty"`
	Fields []ProductValidationError `json:"fields,omitempty"`
}

type ImportRowError struct {
	Row    int                      `json:"row"`
	SKU    string                   `json:"sku,omitempty"`
	Error  string                   `json:"error"`
	Fields []ProductValidationError `json:"fields,omitempty"`
}

type ImportProductsResult struct {
	ImportedProductsCount int              `json:"imported"`
	ProductIDs            []string         `json:"product_ids"`
	Errors                []ImportRowError `json:"errors"`
}

type DashboardResponse struct {
	repo.CatalogStats
	DayStart string `json:"day_start"`
}
