package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestInitOTel_Disabled(t *testing.T) {
	var buf bytes.Buffer
	providers, err := InitOTel(context.Background(), OTelConfig{Enabled: false}, NewLogger(InfoLevel, &buf))

	require.NoError(t, err)
	assert.Nil(t, providers)
	assert.Contains(t, buf.String(), "OpenTelemetry is disabled")
}

func TestInitOTel_Enabled(t *testing.T) {
	// Exporters connect lazily, so an unreachable endpoint still initializes.
	providers, err := InitOTel(context.Background(), OTelConfig{
		Enabled:        true,
		Endpoint:       "127.0.0.1:4317",
		ServiceName:    "reel-test",
		ServiceVersion: "test",
		Insecure:       true,
	}, NewLogger(InfoLevel, &bytes.Buffer{}))
	require.NoError(t, err)
	require.NotNil(t, providers)
	assert.NotNil(t, providers.TracerProvider)
	assert.NotNil(t, providers.MeterProvider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Flushing to a missing collector with a cancelled context may error; it must not hang.
	_ = ShutdownOTel(ctx, providers, NewLogger(InfoLevel, &bytes.Buffer{}))
}

func TestShutdownOTel(t *testing.T) {
	logger := NewLogger(InfoLevel, &bytes.Buffer{})

	t.Run("nil providers", func(t *testing.T) {
		assert.NoError(t, ShutdownOTel(context.Background(), nil, logger))
	})

	t.Run("local providers", func(t *testing.T) {
		providers := &OTelProviders{
			TracerProvider: sdktrace.NewTracerProvider(),
			MeterProvider:  sdkmetric.NewMeterProvider(),
		}
		assert.NoError(t, ShutdownOTel(context.Background(), providers, logger))
	})
}

func TestInstrumentHandler(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(previous)

	var seen trace.SpanContext
	handler := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}), "test")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/films/7", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, seen.IsValid())

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/films/7", spans[0].Name())
}
