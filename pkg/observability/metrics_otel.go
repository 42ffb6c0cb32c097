package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/platinummonkey/reel"

// Capture directions
const (
	DirectionRequest  = "request"
	DirectionResponse = "response"
)

// OTelMetrics holds OpenTelemetry instruments for the request logging pipeline
type OTelMetrics struct {
	capturedBytes  metric.Int64Histogram
	loggedRequests metric.Int64Counter
	logFailures    metric.Int64Counter
}

// NewOTelMetrics creates the instruments on provider, or on the global provider when nil
func NewOTelMetrics(provider metric.MeterProvider) (*OTelMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(instrumentationName)

	m := &OTelMetrics{}
	var err error

	m.capturedBytes, err = meter.Int64Histogram(
		"reel.http.captured_body.size",
		metric.WithDescription("Size of request and response bodies captured for logging"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create captured body histogram: %w", err)
	}

	m.loggedRequests, err = meter.Int64Counter(
		"reel.http.logged_requests",
		metric.WithDescription("Requests for which a log record was emitted"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create logged requests counter: %w", err)
	}

	m.logFailures, err = meter.Int64Counter(
		"reel.http.log_failures",
		metric.WithDescription("Request log records that could not be emitted"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create log failures counter: %w", err)
	}

	return m, nil
}

// RecordCapture records the size of one captured body
func (m *OTelMetrics) RecordCapture(ctx context.Context, direction string, size int) {
	if m == nil {
		return
	}
	m.capturedBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("direction", direction)))
}

// RecordLogged counts an emitted request record
func (m *OTelMetrics) RecordLogged(ctx context.Context, statusCode int) {
	if m == nil {
		return
	}
	m.loggedRequests.Add(ctx, 1, metric.WithAttributes(attribute.Int("http.status_code", statusCode)))
}

// RecordLogFailure counts a request record that was swallowed while emitting
func (m *OTelMetrics) RecordLogFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.logFailures.Add(ctx, 1)
}
