package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/http/handlers"
	"github.com/rogerio-castellano/product-catalog/internal/http/router"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/products"
	"github.com/rogerio-castellano/product-catalog/internal/profile"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

var fixedNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func setup(t *testing.T) http.Handler {
	t.Helper()
	productRepo := repo.NewInMemoryProductRepository()
	engine, err := validation.NewEngine(validation.EngineDeps{
		Checker: validation.NewUniquenessChecker(productRepo),
		Clock:   clock,
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	svc, err := products.NewService(products.ServiceDeps{
		Repo:      productRepo,
		Validator: engine,
		Projector: profile.NewEnricher(profile.WithClock(clock)),
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	handlers.SetProductService(svc)
	handlers.SetStatsRepo(repo.NewInMemoryStatsRepository(productRepo))
	handlers.SetClock(clock)
	t.Cleanup(func() { handlers.SetClock(nil) })
	return router.NewRouter(nil, nil)
}

const speakerJSON = `{
	"name": "Smart Speaker",
	"brand": "Acme Audio",
	"sku": "SPK-001",
	"category": "Electronics",
	"price": 60,
	"releaseDate": "2024-06-15",
	"imageUrl": "https://cdn.example.com/speaker.png",
	"stockQuantity": 10
}`

func postProduct(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateProductHandler(t *testing.T) {
	t.Run("Valid product", func(t *testing.T) {
		h := setup(t)
		w := postProduct(h, speakerJSON)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
		}
		var got models.ProductProfile
		if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got.ID == "" {
			t.Fatal("expected product id")
		}
		if loc := w.Header().Get("Location"); loc != "/products/"+got.ID {
			t.Errorf("expected Location /products/%s, got %q", got.ID, loc)
		}
		if got.FormattedPrice != "$60.00" {
			t.Errorf("expected formatted price $60.00, got %q", got.FormattedPrice)
		}
		if got.BrandInitials != "AA" {
			t.Errorf("expected initials AA, got %q", got.BrandInitials)
		}
		if w.Header().Get("X-Correlation-ID") == "" {
			t.Error("expected correlation id header")
		}
	})

	t.Run("Stock defaults to one", func(t *testing.T) {
		h := setup(t)
		body := strings.Replace(speakerJSON, `"stockQuantity": 10`, `"releaseNotes": ""`, 1)
		w := postProduct(h, body)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
		}
		var got models.ProductProfile
		_ = json.NewDecoder(w.Body).Decode(&got)
		if got.StockQuantity != 1 || got.AvailabilityStatus != "Last Item" {
			t.Errorf("expected stock 1 / Last Item, got %d / %q", got.StockQuantity, got.AvailabilityStatus)
		}
	})

	t.Run("Structural errors list every field", func(t *testing.T) {
		h := setup(t)
		w := postProduct(h, `{"name":"","brand":"A","sku":"X","category":"Toys","price":0,"releaseDate":"2024-01-01"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var resp handlers.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Fields) != 5 {
			t.Errorf("expected 5 field errors, got %d: %+v", len(resp.Fields), resp.Fields)
		}
	})

	t.Run("Business rule violation", func(t *testing.T) {
		h := setup(t)
		w := postProduct(h, strings.Replace(speakerJSON, `"price": 60`, `"price": 40`, 1))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var resp handlers.ErrorResponse
		_ = json.NewDecoder(w.Body).Decode(&resp)
		if resp.Rule != "electronics_min_price" {
			t.Errorf("expected electronics_min_price, got %q", resp.Rule)
		}
	})

	t.Run("Duplicate SKU", func(t *testing.T) {
		h := setup(t)
		if w := postProduct(h, speakerJSON); w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d", w.Code)
		}
		w := postProduct(h, strings.Replace(speakerJSON, "Smart Speaker", "Smart Speaker Max", 1))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "SKU already exists") {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("Invalid release date reported with other fields", func(t *testing.T) {
		h := setup(t)
		body := strings.Replace(speakerJSON, "2024-06-15", "next tuesday", 1)
		body = strings.Replace(body, `"name": "Smart Speaker"`, `"name": ""`, 1)
		w := postProduct(h, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var resp handlers.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		got := map[string]string{}
		for _, f := range resp.Fields {
			got[f.Field] = f.Description
		}
		if len(got) != 2 {
			t.Fatalf("expected name and releaseDate errors, got %+v", resp.Fields)
		}
		if got["releaseDate"] != "Release date must be a valid date." {
			t.Errorf("unexpected releaseDate message %q", got["releaseDate"])
		}
		if got["name"] != "Product name is required." {
			t.Errorf("unexpected name message %q", got["name"])
		}
	})

	t.Run("Sub-cent price", func(t *testing.T) {
		h := setup(t)
		w := postProduct(h, strings.Replace(speakerJSON, `"price": 60`, `"price": 60.004`, 1))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "at most two decimal places") {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		h := setup(t)
		for _, body := range []string{`{"name":`, speakerJSON + speakerJSON} {
			if w := postProduct(h, body); w.Code != http.StatusBadRequest {
				t.Errorf("expected 400 for %q, got %d", body, w.Code)
			}
		}
	})
}

func TestGetProductByIDHandler(t *testing.T) {
	h := setup(t)

	w := postProduct(h, `{"name":"Garden Chair","brand":"Outdoor Living","sku":"CHR-100","category":"Home","price":150,"releaseDate":"2023-06-15","imageUrl":"https://cdn.example.com/chair.jpg","stockQuantity":3}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	location := w.Header().Get("Location")

	t.Run("Existing product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, location, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var got models.ProductProfile
		_ = json.NewDecoder(w.Body).Decode(&got)
		if got.FormattedPrice != "$135.00" {
			t.Errorf("expected discounted price $135.00, got %q", got.FormattedPrice)
		}
		if got.ImageURL != "" {
			t.Errorf("expected image url suppressed, got %q", got.ImageURL)
		}
		if got.CategoryDisplayName != "Home & Garden" {
			t.Errorf("unexpected display name %q", got.CategoryDisplayName)
		}
	})

	t.Run("Missing product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/does-not-exist", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func postCSV(h http.Handler, csvData string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", "products.csv")
	part.Write([]byte(csvData))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/products/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestImportProductsHandler(t *testing.T) {
	t.Run("File with valid and invalid rows", func(t *testing.T) {
		h := setup(t)
		csvData := `name,brand,sku,category,price,releaseDate,imageUrl,stockQuantity
Smart Speaker,Acme Audio,SPK-001,Electronics,60,2024-06-15,,10
Wireless Mouse,Acme Audio,SPK-001,Electronics,55,2024-06-15,,10
Paperback Novel,Penguin,BK-0001,Books,abc,1990-01-01,,5
Cotton Shirt,Threads,CL-0001,Clothing,25,2023-03-01,,`

		w := postCSV(h, csvData)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
		}
		var resp handlers.ImportProductsResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ImportedProductsCount != 2 {
			t.Errorf("expected 2 imported products, got %d", resp.ImportedProductsCount)
		}
		if len(resp.Errors) != 2 {
			t.Fatalf("expected 2 errors, got %+v", resp.Errors)
		}
		if resp.Errors[0].Row != 3 || resp.Errors[1].Row != 4 {
			t.Errorf("unexpected error rows %+v", resp.Errors)
		}
	})

	t.Run("Missing columns", func(t *testing.T) {
		h := setup(t)
		w := postCSV(h, "name,price\nMouse,10")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetDashboardMetricsHandler(t *testing.T) {
	h := setup(t)
	if w := postProduct(h, speakerJSON); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics/dashboard", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handlers.DashboardResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalProducts != 1 || resp.CreatedToday != 1 {
		t.Errorf("unexpected stats %+v", resp.CatalogStats)
	}
	if resp.ByCategory[models.CategoryElectronics] != 1 {
		t.Errorf("expected one electronics product, got %+v", resp.ByCategory)
	}
}
