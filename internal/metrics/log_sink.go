package metrics

import (
	"context"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// LogSink writes each record as a structured log entry using the logger
// carried by the context.
type LogSink struct{}

func NewLogSink() LogSink {
	return LogSink{}
}

func (LogSink) Record(ctx context.Context, m models.OperationMetrics) {
	fields := []zap.Field{
		logging.Event(logging.EventProductCreationCompleted),
		zap.String("operation_id", m.OperationID),
		zap.String("product_name", m.ProductName),
		zap.String("product_sku", m.SKU),
		zap.String("product_category", m.Category.String()),
		zap.Duration("validation_duration", m.ValidationDuration),
		zap.Duration("persistence_duration", m.PersistenceDuration),
		zap.Duration("total_duration", m.TotalDuration),
		zap.Bool("success", m.Success),
	}

	logger := logging.FromContext(ctx)
	if m.Success {
		logger.Info("product operation metrics", fields...)
		return
	}
	fields = append(fields,
		zap.String("error_reason", m.ErrorReason),
		zap.String("failed_phase", m.FailedPhase),
	)
	logger.Warn("product operation metrics", fields...)
}
