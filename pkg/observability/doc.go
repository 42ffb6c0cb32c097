// Package observability provides correlation scopes, structured logging,
// Prometheus and OpenTelemetry metrics, tracing, health checks and graceful
// shutdown.
//
// # Correlation
//
// BeginCorrelation opens a scope with a fresh id and binds it to the returned
// context. The id stays readable through CorrelationIDFromContext until End:
//
//	ctx, scope := observability.BeginCorrelation(r.Context())
//	defer scope.End()
//
// # Structured Logging
//
// Logger writes JSON through log/slog. Records logged with a context carry
// correlation_id, and trace_id/span_id when a span is recording:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithContext(ctx).WithField("film_id", id).Info("Film updated")
//
// Handlers reach the request logger with FromContext(r.Context()).
//
// # Metrics
//
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//	observability.RegisterMetricsEndpoint(healthMux, registry)
//
// NewDBStatsCollector copies sql.DBStats into gauges on a cron schedule.
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:     true,
//		ServiceName: "reel",
//		Endpoint:    "otel-collector:4317",
//	}, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version, db, redisClient)
//	observability.RegisterHealthRoutes(healthMux, checker)
package observability
