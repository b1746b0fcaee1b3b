package vectorstore

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/remotevec/pkg/vectorstore"

// Metrics holds store-level metrics.
type Metrics struct {
	meter    metric.Meter
	logger   *zap.Logger
	duration metric.Float64Histogram
	items    metric.Int64Histogram
	errors   metric.Int64Counter
}

// NewMetrics creates a Metrics instance for the vector store.
func NewMetrics(logger *zap.Logger) *Metrics {
	m := &Metrics{
		meter:  otel.Meter(instrumentationName),
		logger: logger,
	}
	m.init()
	return m
}

func (m *Metrics) init() {
	var err error

	m.duration, err = m.meter.Float64Histogram(
		"remotevec.store.operation_duration_seconds",
		metric.WithDescription("Duration of vector store operations in seconds, labeled by operation (insert, search, list, delete, ...)"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		m.logger.Warn("failed to create duration histogram", zap.Error(err))
	}

	m.items, err = m.meter.Int64Histogram(
		"remotevec.store.batch_size",
		metric.WithDescription("Number of items per store operation (items inserted, results returned, ids deleted)"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 25, 50, 100, 250, 500, 1000),
	)
	if err != nil {
		m.logger.Warn("failed to create batch size histogram", zap.Error(err))
	}

	m.errors, err = m.meter.Int64Counter(
		"remotevec.store.errors_total",
		metric.WithDescription("Total failed vector store operations by operation. Every failed remote call is counted, undifferentiated by cause."),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.logger.Warn("failed to create errors counter", zap.Error(err))
	}
}

// RecordOperation records duration, item count, and error state for one
// store operation.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, itemCount int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
	}

	if m.duration != nil {
		m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}
	if itemCount > 0 && m.items != nil {
		m.items.Record(ctx, int64(itemCount), metric.WithAttributes(attrs...))
	}
	if err != nil && m.errors != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
