package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

var fixedNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

type stubChecker struct {
	skuExists       bool
	nameBrandExists bool
	createdToday    int
	err             error
	countSince      time.Time
}

func (s *stubChecker) SKUExists(context.Context, string) (bool, error) {
	return s.skuExists, s.err
}

func (s *stubChecker) NameBrandExists(context.Context, string, string) (bool, error) {
	return s.nameBrandExists, s.err
}

func (s *stubChecker) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	s.countSince = since
	return s.createdToday, s.err
}

func newTestEngine(t *testing.T, checker Checker) *Engine {
	t.Helper()
	e, err := NewEngine(EngineDeps{Checker: checker, Clock: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	return e
}

func validRequest() models.CreateProductRequest {
	return models.CreateProductRequest{
		Name:          "Smart Speaker",
		Brand:         "Sony",
		SKU:           "SONY-SPK-01",
		Category:      models.CategoryElectronics,
		Price:         decimal.NewFromInt(60),
		ReleaseDate:   fixedNow.AddDate(-1, 0, 0),
		StockQuantity: 5,
	}
}

func requireViolation(t *testing.T, err error, rule string) {
	t.Helper()
	var v *BusinessRuleViolation
	require.Truef(t, errors.As(err, &v), "expected business rule violation, got %v", err)
	assert.Equal(t, rule, v.Rule)
	assert.NotEmpty(t, v.Message)
}

func TestNewEngine_RequiresChecker(t *testing.T) {
	_, err := NewEngine(EngineDeps{})
	assert.ErrorIs(t, err, ErrCheckerMissing)
}

func TestEngine_ValidElectronicsPasses(t *testing.T) {
	e := newTestEngine(t, &stubChecker{})
	assert.NoError(t, e.Validate(context.Background(), validRequest()))
}

func TestEngine_StructuralRules(t *testing.T) {
	e := newTestEngine(t, &stubChecker{})

	tests := []struct {
		name    string
		mutate  func(r *models.CreateProductRequest)
		field   string
		message string
	}{
		{"blank name", func(r *models.CreateProductRequest) { r.Name = "  " }, "name", "Product name is required."},
		{"long name", func(r *models.CreateProductRequest) { r.Name = "Smart " + strings.Repeat("x", 200) }, "name", "Name must be between 1 and 200 characters."},
		{"banned word", func(r *models.CreateProductRequest) { r.Name = "Smart spam phone" }, "name", "Name contains inappropriate content."},
		{"short brand", func(r *models.CreateProductRequest) { r.Brand = "S" }, "brand", "Brand must be between 2 and 100 characters."},
		{"brand chars", func(r *models.CreateProductRequest) { r.Brand = "So&ny" }, "brand", "Brand contains invalid characters."},
		{"empty sku", func(r *models.CreateProductRequest) { r.SKU = "" }, "sku", "SKU is required."},
		{"short sku", func(r *models.CreateProductRequest) { r.SKU = "AB1" }, "sku", "SKU must be between 5 and 20 characters."},
		{"sku chars", func(r *models.CreateProductRequest) { r.SKU = "SONY_SPK_01" }, "sku", "SKU must be alphanumeric with hyphens."},
		{"unknown category", func(r *models.CreateProductRequest) { r.Category = "Toys" }, "category", "Invalid product category."},
		{"zero price", func(r *models.CreateProductRequest) { r.Price = decimal.Zero }, "price", "Price must be greater than 0."},
		{"huge price", func(r *models.CreateProductRequest) { r.Price = decimal.NewFromInt(10000) }, "price", "Price must be less than $10,000."},
		{"sub-cent price", func(r *models.CreateProductRequest) { r.Price = decimal.RequireFromString("60.004") }, "price", "Price must have at most two decimal places."},
		{"malformed price", func(r *models.CreateProductRequest) { r.Price = decimal.Zero; r.Unparsed = []string{"price"} }, "price", "Price must be a number."},
		{"malformed release", func(r *models.CreateProductRequest) { r.ReleaseDate = time.Time{}; r.Unparsed = []string{"releaseDate"} }, "releaseDate", "Release date must be a valid date."},
		{"malformed stock", func(r *models.CreateProductRequest) { r.StockQuantity = 0; r.Unparsed = []string{"stockQuantity"} }, "stockQuantity", "Stock must be a whole number."},
		{"future release", func(r *models.CreateProductRequest) { r.ReleaseDate = fixedNow.Add(time.Hour) }, "releaseDate", "Release date cannot be in the future."},
		{"ancient release", func(r *models.CreateProductRequest) { r.ReleaseDate = time.Date(1899, 5, 1, 0, 0, 0, 0, time.UTC) }, "releaseDate", "Release date cannot be before year 1900."},
		{"missing release", func(r *models.CreateProductRequest) { r.ReleaseDate = time.Time{} }, "releaseDate", "Release date cannot be before year 1900."},
		{"negative stock", func(r *models.CreateProductRequest) { r.StockQuantity = -1 }, "stockQuantity", "Stock cannot be negative."},
		{"excess stock", func(r *models.CreateProductRequest) { r.StockQuantity = 100001 }, "stockQuantity", "Stock cannot exceed 100,000."},
		{"bad image", func(r *models.CreateProductRequest) { r.ImageURL = "ftp://x.com/a.png" }, "imageUrl", "Invalid Image URL. Must be HTTP/HTTPS and end with a valid image extension."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := e.Validate(context.Background(), req)
			var se *StructuralValidationError
			require.Truef(t, errors.As(err, &se), "expected structural error, got %v", err)
			assert.Contains(t, se.Fields, FieldError{Field: tt.field, Message: tt.message})
		})
	}
}

func TestEngine_StructuralCollectsAllFields(t *testing.T) {
	e := newTestEngine(t, &stubChecker{})
	req := validRequest()
	req.Name = ""
	req.SKU = "x"
	req.Price = decimal.NewFromInt(-3)

	err := e.ValidateStructure(req)
	var se *StructuralValidationError
	require.True(t, errors.As(err, &se))

	fields := map[string]bool{}
	for _, f := range se.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["sku"])
	assert.True(t, fields["price"])
	assert.Contains(t, se.Error(), "validation failed: ")
}

func TestEngine_PriceScale(t *testing.T) {
	e := newTestEngine(t, &stubChecker{})
	for _, price := range []string{"60", "60.5", "60.99", "60.000"} {
		req := validRequest()
		req.Price = decimal.RequireFromString(price)
		assert.NoError(t, e.ValidateStructure(req), price)
	}
}

func TestEngine_UnparsedFieldReportsOnlyMalformed(t *testing.T) {
	e := newTestEngine(t, &stubChecker{})
	req := validRequest()
	req.Name = ""
	req.Price = decimal.Zero
	req.ReleaseDate = time.Time{}
	req.Unparsed = []string{"price", "releaseDate"}

	err := e.ValidateStructure(req)
	var se *StructuralValidationError
	require.True(t, errors.As(err, &se))

	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: "Product name is required."},
		{Field: "price", Message: "Price must be a number."},
		{Field: "releaseDate", Message: "Release date must be a valid date."},
	}, se.Fields)
}

func TestEngine_StructuralFailureSkipsRepository(t *testing.T) {
	checker := &stubChecker{err: errors.New("must not be called")}
	e := newTestEngine(t, checker)
	req := validRequest()
	req.SKU = ""

	err := e.Validate(context.Background(), req)
	var se *StructuralValidationError
	assert.True(t, errors.As(err, &se))
	assert.True(t, checker.countSince.IsZero())
}

func TestEngine_Uniqueness(t *testing.T) {
	err := newTestEngine(t, &stubChecker{skuExists: true}).Validate(context.Background(), validRequest())
	requireViolation(t, err, "sku_unique")
	assert.Equal(t, "SKU already exists in the system.", err.Error())

	err = newTestEngine(t, &stubChecker{nameBrandExists: true}).Validate(context.Background(), validRequest())
	requireViolation(t, err, "name_brand_unique")
}

func TestEngine_UniquenessAgainstRepository(t *testing.T) {
	ctx := context.Background()
	products := repo.NewInMemoryProductRepository()
	_, err := products.Add(ctx, models.Product{
		ID: "01", Name: "Smart Speaker", Brand: "Sony", SKU: "SONY-SPK-01",
		Category: models.CategoryElectronics, Price: decimal.NewFromInt(60), CreatedAt: fixedNow,
	})
	require.NoError(t, err)

	e := newTestEngine(t, NewUniquenessChecker(products))
	requireViolation(t, e.Validate(ctx, validRequest()), "sku_unique")

	req := validRequest()
	req.SKU = "SONY-SPK-02"
	requireViolation(t, e.Validate(ctx, req), "name_brand_unique")

	req.Name = "Smart Speaker Mini"
	assert.NoError(t, e.Validate(ctx, req))
}

func TestEngine_DailyLimit(t *testing.T) {
	checker := &stubChecker{createdToday: DefaultDailyLimit}
	err := newTestEngine(t, checker).Validate(context.Background(), validRequest())
	requireViolation(t, err, "daily_limit")
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), checker.countSince)

	checker = &stubChecker{createdToday: DefaultDailyLimit - 1}
	assert.NoError(t, newTestEngine(t, checker).Validate(context.Background(), validRequest()))

	e, err := NewEngine(EngineDeps{Checker: &stubChecker{createdToday: 3}, DailyLimit: 3, Clock: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	requireViolation(t, e.Validate(context.Background(), validRequest()), "daily_limit")
}

func TestEngine_CategoryRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateProductRequest)
		rule   string
	}{
		{"electronics cheap", func(r *models.CreateProductRequest) { r.Price = decimal.NewFromInt(40) }, "electronics_min_price"},
		{"electronics no keyword", func(r *models.CreateProductRequest) { r.Name = "Speaker Box" }, "electronics_tech_keyword"},
		{"electronics old", func(r *models.CreateProductRequest) { r.ReleaseDate = fixedNow.AddDate(-6, 0, 0) }, "electronics_recent_release"},
		{"home expensive", func(r *models.CreateProductRequest) {
			r.Category = models.CategoryHome
			r.Name = "Garden Chair"
			r.Price = decimal.RequireFromString("200.01")
		}, "home_max_price"},
		{"home restricted", func(r *models.CreateProductRequest) {
			r.Category = models.CategoryHome
			r.Name = "Industrial Shelf"
			r.Price = decimal.NewFromInt(80)
		}, "home_appropriate_name"},
		{"clothing short brand", func(r *models.CreateProductRequest) {
			r.Category = models.CategoryClothing
			r.Name = "Running Shirt"
			r.Brand = "HM"
		}, "clothing_brand_length"},
		{"premium overstock", func(r *models.CreateProductRequest) {
			r.Price = decimal.RequireFromString("100.01")
			r.StockQuantity = 21
		}, "premium_stock_cap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			requireViolation(t, newTestEngine(t, &stubChecker{}).Validate(context.Background(), req), tt.rule)
		})
	}
}

func TestEngine_CategoryBoundariesPass(t *testing.T) {
	e := newTestEngine(t, &stubChecker{})

	home := validRequest()
	home.Category = models.CategoryHome
	home.Name = "Garden Chair"
	home.Price = decimal.NewFromInt(200)
	home.StockQuantity = 50
	assert.NoError(t, e.Validate(context.Background(), home))

	books := validRequest()
	books.Category = models.CategoryBooks
	books.Name = "Old Novel"
	books.Price = decimal.NewFromInt(10)
	books.ReleaseDate = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, e.Validate(context.Background(), books))

	premium := validRequest()
	premium.Price = decimal.NewFromInt(100)
	premium.StockQuantity = 500
	assert.NoError(t, e.Validate(context.Background(), premium))
}

func TestEngine_CheckerErrorIsNotAViolation(t *testing.T) {
	boom := errors.New("connection reset")
	err := newTestEngine(t, &stubChecker{err: boom}).Validate(context.Background(), validRequest())
	require.ErrorIs(t, err, boom)
	var v *BusinessRuleViolation
	assert.False(t, errors.As(err, &v))
}
