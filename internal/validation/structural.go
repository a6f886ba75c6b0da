package validation

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/rules"
)

var (
	earliestReleaseDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxPrice            = decimal.NewFromInt(10000)
)

// decodableFields maps the JSON keys a transport may fail to decode to their
// struct fields.
var decodableFields = map[string]string{
	"price":         "Price",
	"releaseDate":   "ReleaseDate",
	"stockQuantity": "StockQuantity",
}

// fieldMessages is keyed by struct field, then by failing tag.
var fieldMessages = map[string]map[string]string{
	"Name": {
		"notblank":         "Product name is required.",
		"max":              "Name must be between 1 and 200 characters.",
		"appropriate_name": "Name contains inappropriate content.",
	},
	"Brand": {
		"notblank":     "Brand is required.",
		"min":          "Brand must be between 2 and 100 characters.",
		"max":          "Brand must be between 2 and 100 characters.",
		"brand_format": "Brand contains invalid characters.",
	},
	"SKU": {
		"notblank":   "SKU is required.",
		"min":        "SKU must be between 5 and 20 characters.",
		"max":        "SKU must be between 5 and 20 characters.",
		"sku_format": "SKU must be alphanumeric with hyphens.",
	},
	"Category": {
		"category": "Invalid product category.",
	},
	"Price": {
		"gt":          "Price must be greater than 0.",
		"lt":          "Price must be less than $10,000.",
		"price_scale": "Price must have at most two decimal places.",
		"malformed":   "Price must be a number.",
	},
	"ReleaseDate": {
		"not_future": "Release date cannot be in the future.",
		"after_1900": "Release date cannot be before year 1900.",
		"malformed":  "Release date must be a valid date.",
	},
	"StockQuantity": {
		"gte":       "Stock cannot be negative.",
		"lte":       "Stock cannot exceed 100,000.",
		"malformed": "Stock must be a whole number.",
	},
	"ImageURL": {
		"image_url": "Invalid Image URL. Must be HTTP/HTTPS and end with a valid image extension.",
	},
}

func newStructValidator(clock func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "appropriate_name", func(fl validator.FieldLevel) bool {
		return rules.IsAppropriateName(fl.Field().String())
	})
	mustRegister(v, "brand_format", func(fl validator.FieldLevel) bool {
		return rules.IsValidBrandFormat(fl.Field().String())
	})
	mustRegister(v, "sku_format", func(fl validator.FieldLevel) bool {
		return rules.IsValidSKUFormat(fl.Field().String())
	})
	mustRegister(v, "image_url", func(fl validator.FieldLevel) bool {
		return rules.IsValidImageURL(fl.Field().String())
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		req := sl.Current().Interface().(models.CreateProductRequest)
		for _, field := range req.Unparsed {
			if structField, ok := decodableFields[field]; ok {
				sl.ReportError(nil, field, structField, "malformed", "")
			}
		}

		if !req.IsUnparsed("releaseDate") {
			release := req.ReleaseDate.UTC()
			switch {
			case release.After(clock()):
				sl.ReportError(req.ReleaseDate, "releaseDate", "ReleaseDate", "not_future", "")
			case !release.After(earliestReleaseDate):
				sl.ReportError(req.ReleaseDate, "releaseDate", "ReleaseDate", "after_1900", "")
			}
		}

		// Out of range prices already fail gt/lt.
		inRange := req.Price.IsPositive() && req.Price.LessThan(maxPrice)
		if inRange && !req.IsUnparsed("price") && !req.Price.Equal(req.Price.Round(models.PriceScale)) {
			sl.ReportError(req.Price, "price", "Price", "price_scale", "")
		}
	}, models.CreateProductRequest{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

// structuralErrors converts validator output into field/message pairs. An
// undecodable field reports only that it is malformed.
func structuralErrors(err error, unparsed []string) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make([]FieldError, 0, len(ve))
	skip := make(map[string]bool, len(unparsed))
	for _, f := range unparsed {
		skip[f] = true
	}
	for _, fe := range ve {
		if skip[fe.Field()] && fe.Tag() != "malformed" {
			continue
		}
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return &StructuralValidationError{Fields: out}
}

func messageFor(fe validator.FieldError) string {
	if byTag, ok := fieldMessages[fe.StructField()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	return fe.Error()
}
