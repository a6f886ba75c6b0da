package handlers

import (
	"strings"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// releaseDateLayouts are tried in order when decoding releaseDate.
var releaseDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// toCreateRequest converts the wire request into the domain request. Fields
// that fail to decode are marked unparsed so the rule engine reports them
// together with every other structural failure.
func toCreateRequest(p ProductRequest, unparsed ...string) models.CreateProductRequest {
	req := models.NewCreateProductRequest()
	req.Name = p.Name
	req.Brand = p.Brand
	req.SKU = p.SKU
	req.Category = models.Category(strings.TrimSpace(p.Category))
	req.Price = p.Price
	req.ImageURL = strings.TrimSpace(p.ImageURL)
	if p.StockQuantity != nil {
		req.StockQuantity = *p.StockQuantity
	}

	req.Unparsed = append(req.Unparsed, unparsed...)
	if raw := strings.TrimSpace(p.ReleaseDate); raw != "" {
		d, ok := parseReleaseDate(raw)
		if !ok {
			req.Unparsed = append(req.Unparsed, "releaseDate")
		}
		req.ReleaseDate = d
	}
	return req
}

func parseReleaseDate(raw string) (time.Time, bool) {
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func fromFieldErrors(fields []validation.FieldError) []ProductValidationError {
	out := make([]ProductValidationError, 0, len(fields))
	for _, f := range fields {
		out = append(out, ProductValidationError{Field: f.Field, Description: f.Message})
	}
	return out
}
