// Package profile projects stored products into their display profile.
package profile

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/rules"
)

const (
	defaultCurrencySymbol = "$"
	uncategorized         = "Uncategorized"
	unknownInitials       = "?"
)

var homeDiscount = decimal.RequireFromString("0.9")

// categoryProjection is the per-category part of the profile.
type categoryProjection struct {
	displayName string
	adjust      func(p *models.ProductProfile)
}

var categoryProjections = map[models.Category]categoryProjection{
	models.CategoryElectronics: {displayName: "Electronics & Technology"},
	models.CategoryClothing:    {displayName: "Clothing & Fashion"},
	models.CategoryBooks:       {displayName: "Books & Media"},
	models.CategoryHome: {
		displayName: "Home & Garden",
		adjust: func(p *models.ProductProfile) {
			p.Price = p.Price.Mul(homeDiscount)
			p.ImageURL = ""
		},
	},
}

// Option customises Enricher construction.
type Option func(*Enricher)

// WithClock sets the clock used for the product age bucket.
func WithClock(clock func() time.Time) Option {
	return func(e *Enricher) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithLocale selects the number formatting locale for prices.
func WithLocale(tag language.Tag) Option {
	return func(e *Enricher) {
		e.printer = message.NewPrinter(tag)
	}
}

// WithCurrencySymbol overrides the currency symbol prefixed to prices.
func WithCurrencySymbol(symbol string) Option {
	return func(e *Enricher) {
		e.currencySymbol = symbol
	}
}

// Enricher derives display fields from a product. Project is a pure function
// of its input and the clock.
type Enricher struct {
	clock          func() time.Time
	printer        *message.Printer
	currencySymbol string
}

func NewEnricher(opts ...Option) *Enricher {
	e := &Enricher{
		clock:          time.Now,
		printer:        message.NewPrinter(language.AmericanEnglish),
		currencySymbol: defaultCurrencySymbol,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Project builds the profile of p. The stored product is not modified.
func (e *Enricher) Project(p models.Product) models.ProductProfile {
	cat, ok := categoryProjections[p.Category]
	if !ok {
		cat = categoryProjection{displayName: uncategorized}
	}

	profile := models.ProductProfile{
		ID:                  p.ID,
		Name:                p.Name,
		Brand:               p.Brand,
		SKU:                 p.SKU,
		Category:            p.Category,
		CategoryDisplayName: cat.displayName,
		Price:               p.Price,
		ReleaseDate:         p.ReleaseDate,
		CreatedAt:           p.CreatedAt,
		ImageURL:            p.ImageURL,
		IsAvailable:         p.IsAvailable,
		StockQuantity:       p.StockQuantity,
		ProductAge:          ProductAge(p.ReleaseDate, e.clock()),
		BrandInitials:       BrandInitials(p.Brand),
		AvailabilityStatus:  AvailabilityStatus(p.IsAvailable, p.StockQuantity),
	}
	if cat.adjust != nil {
		cat.adjust(&profile)
	}
	profile.FormattedPrice = e.FormatPrice(profile.Price)
	return profile
}

// FormatPrice renders price as currency with two fractional digits.
func (e *Enricher) FormatPrice(price decimal.Decimal) string {
	return e.currencySymbol + e.printer.Sprintf("%.2f", price.Round(2).InexactFloat64())
}

// CategoryDisplayName returns the human label for c.
func CategoryDisplayName(c models.Category) string {
	if cat, ok := categoryProjections[c]; ok {
		return cat.displayName
	}
	return uncategorized
}

// BrandInitials returns the first letter of the first and last words of
// brand, or of its only word.
func BrandInitials(brand string) string {
	if rules.IsBlank(brand) {
		return unknownInitials
	}
	parts := strings.FieldsFunc(brand, func(r rune) bool { return r == ' ' })
	switch {
	case len(parts) >= 2:
		return firstUpper(parts[0]) + firstUpper(parts[len(parts)-1])
	case len(parts) == 1:
		return firstUpper(parts[0])
	default:
		return unknownInitials
	}
}

func firstUpper(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// ProductAge buckets the time since release.
func ProductAge(releaseDate, now time.Time) string {
	days := now.Sub(releaseDate).Hours() / 24
	switch {
	case days < 30:
		return "New Release"
	case days < 365:
		return fmt.Sprintf("%d months old", int(math.Floor(days/30)))
	case days < 1825:
		return fmt.Sprintf("%d years old", int(math.Floor(days/365)))
	default:
		return "Classic"
	}
}

// AvailabilityStatus describes stock for display. The availability flag
// takes priority over the quantity.
func AvailabilityStatus(isAvailable bool, stock int) string {
	switch {
	case !isAvailable:
		return "Out of Stock"
	case stock == 0:
		return "Unavailable"
	case stock == 1:
		return "Last Item"
	case stock <= 5:
		return "Limited Stock"
	default:
		return "In Stock"
	}
}
