// Package metrics publishes per-operation timing records.
package metrics

import (
	"context"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// Sink receives exactly one OperationMetrics per create operation.
type Sink interface {
	Record(ctx context.Context, m models.OperationMetrics)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, m models.OperationMetrics)

func (f SinkFunc) Record(ctx context.Context, m models.OperationMetrics) {
	f(ctx, m)
}

// Multi fans a record out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return multiSink(filtered)
}

type multiSink []Sink

func (m multiSink) Record(ctx context.Context, rec models.OperationMetrics) {
	for _, s := range m {
		s.Record(ctx, rec)
	}
}

// Nop discards records.
var Nop Sink = SinkFunc(func(context.Context, models.OperationMetrics) {})
