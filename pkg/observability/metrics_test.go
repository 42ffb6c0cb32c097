package observability

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	require.NotNil(t, m)

	assert.Panics(t, func() { NewMetrics(registry) }, "registering twice must fail")
}

func TestHTTPMetricsMiddleware_RouteTemplate(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/films/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
	}).Methods(http.MethodGet)

	for _, path := range []string{"/films/1", "/films/2", "/films/3"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/films/{id}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestsTotal), "path parameters must not create new series")
}

func TestHTTPMetricsMiddleware_Panic(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware(m))
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	assert.PanicsWithValue(t, "boom", func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500")))
}

func TestMetrics_Helpers(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.ObserveStorage("get_film", "sqlite", time.Now(), nil)
	m.ObserveStorage("get_film", "sqlite", time.Now(), errors.New("boom"))
	m.RecordCodecError("rating")
	m.RecordCacheHit("l1")
	m.RecordCacheMiss("redis")
	m.RecordCacheEviction("l1", "expired")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageOperationsTotal.WithLabelValues("get_film", "sqlite", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StorageOperationsTotal.WithLabelValues("get_film", "sqlite", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CodecErrorsTotal.WithLabelValues("rating")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("l1")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("redis")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheEvictionsTotal.WithLabelValues("l1", "expired")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStorage("op", "sqlite", time.Now(), nil)
		m.RecordCodecError("rating")
		m.RecordCacheHit("l1")
		m.RecordCacheMiss("l1")
		m.RecordCacheEviction("l1", "capacity")
	})
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	m.RecordCodecError("special_features")

	serveMux := http.NewServeMux()
	RegisterMetricsEndpoint(serveMux, registry)

	rr := httptest.NewRecorder()
	serveMux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `reel_codec_errors_total{attribute="special_features"} 1`)
}

type fakeStats sql.DBStats

func (f fakeStats) Stats() sql.DBStats { return sql.DBStats(f) }

func TestDBStatsCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)
	logger := NewLogger(InfoLevel, &bytes.Buffer{})

	source := fakeStats{OpenConnections: 5, InUse: 2, Idle: 3, WaitCount: 7, WaitDuration: 2 * time.Second}

	c, err := NewDBStatsCollector(source, m, "@every 1h", logger)
	require.NoError(t, err)

	c.Collect()
	assert.Equal(t, float64(5), testutil.ToFloat64(m.DBConnectionsOpen))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBConnectionsInUse))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.DBConnectionsIdle))
	assert.Equal(t, float64(7), testutil.ToFloat64(m.DBConnectionsWaitCount))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.DBConnectionsWaitDuration))

	c.Start()
	c.Stop()
}

func TestDBStatsCollector_InvalidSchedule(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	_, err := NewDBStatsCollector(fakeStats{}, m, "not a schedule", NewLogger(InfoLevel, &bytes.Buffer{}))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid db stats schedule"))
}
