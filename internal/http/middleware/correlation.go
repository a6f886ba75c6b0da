package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
)

// CorrelationHeader carries the id that ties together log lines of one request.
const CorrelationHeader = "X-Correlation-ID"

type contextKey string

const correlationIDKey = contextKey("correlation_id")

// Correlation echoes or generates the correlation id and installs a request
// logger derived from base.
func Correlation(base *zap.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(CorrelationHeader))
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(CorrelationHeader, id)

			ctx := context.WithValue(r.Context(), correlationIDKey, id)
			ctx = logging.WithLogger(ctx, base.With(
				zap.String("correlation_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CorrelationID returns the id stored by Correlation, if any.
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
