// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//
//	import "github.com/platinummonkey/reel/pkg/contextkeys"
//	ctx = context.WithValue(ctx, contextkeys.CorrelationKey, scope)
//	scope, _ := ctx.Value(contextkeys.CorrelationKey).(*observability.CorrelationScope)
package contextkeys

import (
	"context"
	"time"
)

// Key is the type for context keys to prevent collisions
type Key string

const (
	// CorrelationKey contains *observability.CorrelationScope
	// Set by: observability.BeginCorrelation, called from middleware.RequestLogger
	// Used by: Logger context handler, every log record emitted during a request
	// Type: *observability.CorrelationScope
	CorrelationKey Key = "correlation_scope"

	// LoggerKey contains *observability.Logger
	// Set by: middleware.RequestLogger via observability.WithLogger
	// Used by: Handlers that need structured logging with request context
	// Type: *observability.Logger
	LoggerKey Key = "logger"

	// RequestStartTimeKey contains request start timestamp
	// Set by: middleware.RequestLogger
	// Used by: Duration calculation in handlers that report partial timings
	// Type: time.Time
	RequestStartTimeKey Key = "request_start_time"
)

// Helper functions for type-safe context operations

// WithLogger adds logger to the context
func WithLogger(ctx context.Context, logger interface{}) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithRequestStartTime adds request start time to the context
func WithRequestStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, RequestStartTimeKey, startTime)
}

// GetRequestStartTime retrieves request start time from context
func GetRequestStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(RequestStartTimeKey).(time.Time)
	return startTime, ok
}
