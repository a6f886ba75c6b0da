package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/validation"
)

// GetDashboardMetricsHandler serves aggregate catalog counts.
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	dayStart := validation.StartOfDay(clock())
	stats, err := statsRepo.GetCatalogStats(r.Context(), dayStart)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to fetch catalog stats", zap.Error(err))
		_ = writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch metrics"})
		return
	}
	resp := DashboardResponse{CatalogStats: stats, DayStart: dayStart.Format(time.RFC3339)}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logging.FromContext(r.Context()).Warn("failed to write response", zap.Error(err))
	}
}
