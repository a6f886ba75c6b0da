package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const meterName = "github.com/rogerio-castellano/product-catalog/products"

// OtelOption customises OtelSink construction.
type OtelOption func(*otelConfig)

type otelConfig struct {
	meter  metric.Meter
	logger *zap.Logger
}

// WithMeter overrides the meter, defaulting to the global provider.
func WithMeter(m metric.Meter) OtelOption {
	return func(c *otelConfig) {
		c.meter = m
	}
}

// WithLogger sets the logger used to report instrument registration failures.
func WithLogger(l *zap.Logger) OtelOption {
	return func(c *otelConfig) {
		c.logger = l
	}
}

// OtelSink exports operation metrics as OpenTelemetry instruments.
type OtelSink struct {
	validation  metric.Float64Histogram
	persistence metric.Float64Histogram
	total       metric.Float64Histogram
	operations  metric.Int64Counter
}

func NewOtelSink(opts ...OtelOption) (*OtelSink, error) {
	cfg := otelConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.meter == nil {
		cfg.meter = otel.GetMeterProvider().Meter(meterName)
	}

	s := &OtelSink{}
	var err error
	if s.validation, err = histogram(cfg.meter, "products.create.validation_duration", "Time spent validating a create request"); err != nil {
		cfg.logger.Warn("metrics: unable to register validation histogram", zap.Error(err))
		return nil, err
	}
	if s.persistence, err = histogram(cfg.meter, "products.create.persistence_duration", "Time spent persisting a new product"); err != nil {
		cfg.logger.Warn("metrics: unable to register persistence histogram", zap.Error(err))
		return nil, err
	}
	if s.total, err = histogram(cfg.meter, "products.create.total_duration", "End to end duration of a create operation"); err != nil {
		cfg.logger.Warn("metrics: unable to register total histogram", zap.Error(err))
		return nil, err
	}
	s.operations, err = cfg.meter.Int64Counter(
		"products.create.operations",
		metric.WithDescription("Count of create operations by outcome"),
	)
	if err != nil {
		cfg.logger.Warn("metrics: unable to register operation counter", zap.Error(err))
		return nil, err
	}
	return s, nil
}

func histogram(m metric.Meter, name, desc string) (metric.Float64Histogram, error) {
	return m.Float64Histogram(name, metric.WithUnit("ms"), metric.WithDescription(desc))
}

func (s *OtelSink) Record(ctx context.Context, m models.OperationMetrics) {
	attrs := []attribute.KeyValue{
		attribute.String("category", m.Category.String()),
		attribute.Bool("success", m.Success),
	}
	if !m.Success && m.FailedPhase != "" {
		attrs = append(attrs, attribute.String("failed_phase", m.FailedPhase))
	}
	opt := metric.WithAttributes(attrs...)

	s.validation.Record(ctx, millis(m.ValidationDuration), opt)
	s.persistence.Record(ctx, millis(m.PersistenceDuration), opt)
	s.total.Record(ctx, millis(m.TotalDuration), opt)
	s.operations.Add(ctx, 1, opt)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
