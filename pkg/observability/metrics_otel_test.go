package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupTestMeterProvider creates a test meter provider with a manual reader
func setupTestMeterProvider(t *testing.T) (*metric.MeterProvider, *metric.ManualReader) {
	t.Helper()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down provider: %v", err)
		}
	})
	return provider, reader
}

func collectMetric(t *testing.T, reader *metric.ManualReader, name string) (metricdata.Metrics, bool) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestOTelMetrics_RecordCapture(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)

	m, err := NewOTelMetrics(provider)
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v", err)
	}

	ctx := context.Background()
	m.RecordCapture(ctx, DirectionRequest, 10)
	m.RecordCapture(ctx, DirectionResponse, 32)

	got, ok := collectMetric(t, reader, "reel.http.captured_body.size")
	if !ok {
		t.Fatal("captured body histogram not found")
	}
	hist, ok := got.Data.(metricdata.Histogram[int64])
	if !ok {
		t.Fatalf("unexpected data type %T", got.Data)
	}
	if len(hist.DataPoints) != 2 {
		t.Fatalf("expected 2 data points (one per direction), got %d", len(hist.DataPoints))
	}

	var total int64
	for _, dp := range hist.DataPoints {
		total += dp.Sum
	}
	if total != 42 {
		t.Errorf("expected total 42 bytes, got %d", total)
	}
}

func TestOTelMetrics_Counters(t *testing.T) {
	provider, reader := setupTestMeterProvider(t)

	m, err := NewOTelMetrics(provider)
	if err != nil {
		t.Fatalf("NewOTelMetrics() error = %v", err)
	}

	ctx := context.Background()
	m.RecordLogged(ctx, 200)
	m.RecordLogged(ctx, 200)
	m.RecordLogFailure(ctx)

	got, ok := collectMetric(t, reader, "reel.http.logged_requests")
	if !ok {
		t.Fatal("logged requests counter not found")
	}
	sum := got.Data.(metricdata.Sum[int64])
	if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
		t.Errorf("expected one point with value 2, got %+v", sum.DataPoints)
	}

	got, ok = collectMetric(t, reader, "reel.http.log_failures")
	if !ok {
		t.Fatal("log failures counter not found")
	}
	sum = got.Data.(metricdata.Sum[int64])
	if sum.DataPoints[0].Value != 1 {
		t.Errorf("expected 1 failure, got %d", sum.DataPoints[0].Value)
	}
}

func TestOTelMetrics_NilReceiver(t *testing.T) {
	var m *OTelMetrics
	m.RecordCapture(context.Background(), DirectionRequest, 1)
	m.RecordLogged(context.Background(), 200)
	m.RecordLogFailure(context.Background())
}

func TestNewOTelMetrics_GlobalProvider(t *testing.T) {
	if _, err := NewOTelMetrics(nil); err != nil {
		t.Fatalf("NewOTelMetrics(nil) error = %v", err)
	}
}
