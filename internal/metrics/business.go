package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/configvault/internal/errors"
)

// BusinessMetrics records operation counts and durations per domain.
// Domains here are "store", "crypto", and "audit"; operations are the
// public methods of those services.
type BusinessMetrics interface {
	// RecordOperation increments the operation counter. Status is
	// "success" or "error".
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the operation latency in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
}

// NewBusinessMetrics creates OpenTelemetry-backed business metrics under
// the given namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of configuration store operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create operation counter")
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of configuration store operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create duration histogram")
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// NoOpBusinessMetrics discards all recordings. Used when metrics are
// disabled by configuration.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a metrics sink that records nothing.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(_ context.Context, _, _, _ string) {}

func (n *NoOpBusinessMetrics) RecordDuration(_ context.Context, _, _ string, _ time.Duration, _ string) {
}
