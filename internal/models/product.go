package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is the product category tag.
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryBooks       Category = "Books"
	CategoryHome        Category = "Home"
	CategoryOther       Category = "Other"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategoryElectronics,
	CategoryClothing,
	CategoryBooks,
	CategoryHome,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// DefaultStockQuantity is applied when a request omits stockQuantity.
const DefaultStockQuantity = 1

// PriceScale is the number of fractional digits a price may carry.
const PriceScale = 2

// CreateProductRequest is the intake payload for a new catalog product.
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"notblank,max=200,appropriate_name"`
	Brand         string          `json:"brand" validate:"notblank,min=2,max=100,brand_format"`
	SKU           string          `json:"sku" validate:"notblank,min=5,max=20,sku_format"`
	Category      Category        `json:"category" validate:"category"`
	Price         decimal.Decimal `json:"price" validate:"gt=0,lt=10000"`
	ReleaseDate   time.Time       `json:"releaseDate"`
	ImageURL      string          `json:"imageUrl,omitempty" validate:"omitempty,image_url"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0,lte=100000"`

	// Unparsed names, by JSON key, the fields whose raw input could not be
	// decoded. They are reported as structural failures.
	Unparsed []string `json:"-" validate:"-"`
}

// IsUnparsed reports whether the field with the given JSON key failed to decode.
func (r CreateProductRequest) IsUnparsed(field string) bool {
	for _, f := range r.Unparsed {
		if f == field {
			return true
		}
	}
	return false
}

// NewCreateProductRequest returns a request carrying the field defaults.
// Decoders should start from it so that an omitted stockQuantity stays 1.
func NewCreateProductRequest() CreateProductRequest {
	return CreateProductRequest{StockQuantity: DefaultStockQuantity}
}

// Product represents a persisted catalog product.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	SKU           string          `json:"sku"`
	Category      Category        `json:"category"`
	Price         decimal.Decimal `json:"price"`
	ReleaseDate   time.Time       `json:"releaseDate"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	StockQuantity int             `json:"stockQuantity"`
	IsAvailable   bool            `json:"isAvailable"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// ProductProfile is the display projection of a Product. It is recomputed on
// every read and never stored.
type ProductProfile struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Brand               string          `json:"brand"`
	SKU                 string          `json:"sku"`
	Category            Category        `json:"category"`
	CategoryDisplayName string          `json:"categoryDisplayName"`
	Price               decimal.Decimal `json:"price"`
	FormattedPrice      string          `json:"formattedPrice"`
	ReleaseDate         time.Time       `json:"releaseDate"`
	CreatedAt           time.Time       `json:"createdAt"`
	ImageURL            string          `json:"imageUrl,omitempty"`
	IsAvailable         bool            `json:"isAvailable"`
	StockQuantity       int             `json:"stockQuantity"`
	ProductAge          string          `json:"productAge"`
	BrandInitials       string          `json:"brandInitials"`
	AvailabilityStatus  string          `json:"availabilityStatus"`
}
