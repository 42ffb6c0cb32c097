package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/reel/pkg/api"
	"github.com/platinummonkey/reel/pkg/config"
	"github.com/platinummonkey/reel/pkg/httputil"
	"github.com/platinummonkey/reel/pkg/middleware"
	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
	"github.com/platinummonkey/reel/pkg/storage/cache"
	"github.com/platinummonkey/reel/pkg/storage/sqlstore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const replicaCheckInterval = 30 * time.Second

func main() {
	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)

	if err := run(logger); err != nil {
		logger.WithError(err).Error("reel exited with error")
		os.Exit(1)
	}
}

func run(logger *observability.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Observability.LogLevel)

	ctx, stop := observability.SignalContext(context.Background())
	defer stop()

	if cfg.File != "" {
		if err := config.WatchLogLevel(ctx, cfg.File, logger); err != nil {
			logger.WithError(err).Warn("Log level reload disabled")
		}
	}

	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	db, err := sqlstore.Open(ctx, cfg.Storage, logger, sqlstore.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	logger.WithFields(map[string]interface{}{
		"type":     cfg.Storage.Type,
		"replicas": len(db.Connections().AllReplicas()),
	}).Info("Storage initialized")
	db.Connections().StartHealthCheckRoutine(ctx, replicaCheckInterval)

	var redisClient *redis.Client
	if cfg.Storage.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Storage)
		if err != nil {
			db.Close()
			return err
		}
	}

	var store storage.Store = db
	if cfg.Storage.CacheEnabled {
		opts := []cache.Option{cache.WithMetrics(metrics), cache.WithLogger(logger)}
		if redisClient != nil {
			opts = append(opts, cache.WithRedis(redisClient))
		}
		store = cache.NewFilmCache(db, cfg.Storage.L1CacheSize, cfg.Storage.CacheTTL, opts...)
	}

	var statsCollector *observability.DBStatsCollector
	if metrics != nil {
		statsCollector, err = observability.NewDBStatsCollector(db.Connections(), metrics, cfg.Observability.DBStatsSchedule, logger)
		if err != nil {
			db.Close()
			return err
		}
		statsCollector.Start()
	}

	captureMetrics, err := observability.NewOTelMetrics(otel.GetMeterProvider())
	if err != nil {
		logger.WithError(err).Warn("Capture metrics disabled")
	}

	handler := buildHandler(ctx, cfg, store, redisClient, metrics, captureMetrics, logger)

	apiServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, observability.NewHealthChecker(version, db.DB(), redisClient))
	observability.RegisterMetricsEndpoint(healthMux, registry)
	healthServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.HealthPort),
		Handler:           healthMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdown := observability.NewShutdownManager(logger, cfg.Server.ShutdownTimeout, apiServer, healthServer)
	if statsCollector != nil {
		shutdown.RegisterShutdownFunc("db stats collector", func(context.Context) error {
			statsCollector.Stop()
			return nil
		})
	}
	shutdown.RegisterShutdownFunc("storage", func(context.Context) error {
		return db.Close()
	})
	if redisClient != nil {
		shutdown.RegisterShutdownFunc("redis", func(context.Context) error {
			return redisClient.Close()
		})
	}
	shutdown.RegisterShutdownFunc("opentelemetry", func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting reel API server on %s", apiServer.Addr)
		return serve(apiServer)
	})
	g.Go(func() error {
		logger.Infof("Starting health and metrics server on %s", healthServer.Addr)
		return serve(healthServer)
	})
	g.Go(func() error {
		return shutdown.WaitForShutdown(gctx)
	})

	return g.Wait()
}

// buildHandler assembles the middleware chain around the API router. The
// tracing span opens first so the request record carries its trace id.
func buildHandler(
	ctx context.Context,
	cfg *config.Config,
	store storage.Store,
	redisClient *redis.Client,
	metrics *observability.Metrics,
	captureMetrics *observability.OTelMetrics,
	logger *observability.Logger,
) http.Handler {
	server := api.NewServer(store, api.WithMetrics(metrics))

	requestLogger := middleware.NewRequestLogger(logger,
		middleware.WithCaptureMetrics(captureMetrics),
		middleware.WithCaptureLimit(cfg.Server.MaxBodyBytes),
	)
	chain := []func(http.Handler) http.Handler{
		requestLogger.Handler,
		httputil.RecoveryMiddleware,
		httputil.CORSMiddleware(cfg.Server.CORSOrigins),
	}

	if rl := cfg.Server.RateLimit; rl.Enabled {
		limitCfg := &middleware.RateLimitConfig{
			RequestsPerWindow: rl.RequestsPerWindow,
			WindowDuration:    rl.Window,
			BurstSize:         rl.Burst,
		}

		var limiter middleware.Limiter
		if rl.Backend == "redis" && redisClient != nil {
			limiter = middleware.NewDistributedRateLimiter(redisClient, limitCfg, "reel:ratelimit")
		} else {
			local := middleware.NewRateLimiter(limitCfg)
			local.StartCleanup(ctx, logger)
			limiter = local
		}
		chain = append(chain, middleware.NewRateLimitMiddleware(limiter, logger).Handler)
	}

	chain = append(chain, httputil.MaxBytesMiddleware(cfg.Server.MaxBodyBytes))

	handler := httputil.Chain(chain...)(server)
	if cfg.Observability.OTelEnabled {
		handler = observability.InstrumentHandler(handler, "reel")
	}
	return handler
}

func serve(server *http.Server) error {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server on %s failed: %w", server.Addr, err)
	}
	return nil
}
