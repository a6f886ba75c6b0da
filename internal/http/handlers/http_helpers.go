package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/products"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

const maxBodyBytes = 1048576 // one megabyte

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBodyBytes))

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// errorResponse maps a pipeline error to its status code and body.
func errorResponse(err error) (int, ErrorResponse) {
	switch products.Kind(err) {
	case products.KindStructural:
		var structural *validation.StructuralValidationError
		errors.As(err, &structural)
		return http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fromFieldErrors(structural.Fields)}
	case products.KindBusiness:
		var violation *validation.BusinessRuleViolation
		errors.As(err, &violation)
		return http.StatusBadRequest, ErrorResponse{Error: violation.Message, Rule: violation.Rule}
	case products.KindConflict:
		var conflict *products.ConflictError
		errors.As(err, &conflict)
		return http.StatusConflict, ErrorResponse{Error: conflict.Error(), Field: conflict.Field}
	case products.KindNotFound:
		return http.StatusNotFound, ErrorResponse{Error: "product not found"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "could not process request"}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", zap.Error(err))
	}
	if werr := writeJSON(w, status, body); werr != nil {
		logging.FromContext(r.Context()).Warn("failed to write error response", zap.Error(werr))
	}
}
