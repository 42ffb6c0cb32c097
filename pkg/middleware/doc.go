// Package middleware provides the HTTP middleware that wraps the catalog API.
//
// # Overview
//
// RequestLogger is the outermost application middleware. It opens a correlation
// scope, captures both bodies, and emits one "API Request/Response" record per
// request after the response has been sent:
//
//	logged := middleware.NewRequestLogger(logger, middleware.WithCaptureLimit(1<<20)).Handler(router)
//
// Request bodies are captured up to the limit; the remainder of an oversized
// body is never read on the logger's behalf. Panics are logged and answered
// with 500, except http.ErrAbortHandler which is re-raised without a response.
//
// Any record logged through observability.FromContext(r.Context()) while the
// request is in flight carries the same correlation_id as the final record.
//
// RateLimitMiddleware limits requests per client IP with either limiter:
//
//	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
//	limiter := middleware.NewDistributedRateLimiter(redisClient, cfg, "reel:ratelimit")
//	router.Use(middleware.NewRateLimitMiddleware(limiter, logger).Handler)
//
// Limiter errors fail open.
//
// # Related Packages
//
//   - pkg/capture: body capture used by RequestLogger
//   - pkg/observability: correlation scope and logger
package middleware
