package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
)

// CreateProductHandler runs a create request through the intake pipeline and
// answers 201 with the product profile.
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var body ProductRequest
	if err := readJSON(w, r, &body); err != nil {
		logging.FromContext(r.Context()).Info("invalid create request body", zap.Error(err))
		_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
		return
	}

	profile, err := productService.CreateProduct(r.Context(), toCreateRequest(body))
	if err != nil {
		writeError(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Location", "/products/"+profile.ID)
	if err := writeJSON(w, http.StatusCreated, profile, headers); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write response", zap.Error(err))
	}
}

// GetProductByIDHandler returns the profile of a stored product, recomputed
// on every read.
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		_ = writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid product ID"})
		return
	}

	profile, err := productService.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, profile); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write response", zap.Error(err))
	}
}
