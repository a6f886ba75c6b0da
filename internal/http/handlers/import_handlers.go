package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
)

const maxImportBytes = 10 << 20

var requiredImportColumns = []string{"name", "brand", "sku", "category", "price", "releasedate"}

type csvRow struct {
	line     int
	req      ProductRequest
	unparsed []string
}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing CSV column %q", col)
		}
	}

	column := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for line := 2; ; line++ { // header is row 1
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{line: line, req: ProductRequest{
			Name:        column(record, "name"),
			Brand:       column(record, "brand"),
			SKU:         column(record, "sku"),
			Category:    column(record, "category"),
			ReleaseDate: column(record, "releasedate"),
			ImageURL:    column(record, "imageurl"),
		}}
		if raw := column(record, "price"); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil {
				row.unparsed = append(row.unparsed, "price")
			}
			row.req.Price = price
		}
		if raw := column(record, "stockquantity"); raw != "" {
			stock, err := strconv.Atoi(raw)
			if err != nil {
				row.unparsed = append(row.unparsed, "stockQuantity")
			}
			row.req.StockQuantity = &stock
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ImportProductsHandler creates one product per CSV row. Every row goes
// through the full intake pipeline; failures are reported per row.
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing file"})
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result := ImportProductsResult{ProductIDs: []string{}, Errors: []ImportRowError{}}
	for _, row := range rows {
		profile, err := productService.CreateProduct(r.Context(), toCreateRequest(row.req, row.unparsed...))
		if err != nil {
			result.Errors = append(result.Errors, importRowError(row, err))
			continue
		}
		result.ImportedProductsCount++
		result.ProductIDs = append(result.ProductIDs, profile.ID)
	}

	logging.FromContext(r.Context()).Info("product import finished",
		zap.Int("rows", len(rows)),
		zap.Int("imported", result.ImportedProductsCount),
		zap.Int("failed", len(result.Errors)))

	if err := writeJSON(w, http.StatusOK, result); err != nil {
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func importRowError(row csvRow, err error) ImportRowError {
	_, body := errorResponse(err)
	return ImportRowError{Row: row.line, SKU: row.req.SKU, Error: body.Error, Fields: body.Fields}
}
