package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/platinummonkey/reel/pkg/capture"
	"github.com/platinummonkey/reel/pkg/contextkeys"
	"github.com/platinummonkey/reel/pkg/observability"
)

// RequestLogMessage is the message of the per-request log record
const RequestLogMessage = "API Request/Response"

// DefaultCaptureLimit is the most of a request body kept for the record
const DefaultCaptureLimit int64 = 1 << 20

// RequestLogger emits exactly one log record per request with the captured
// request and response bodies. Every record logged while the request is being
// handled carries the same correlation id.
type RequestLogger struct {
	logger       *observability.Logger
	metrics      *observability.OTelMetrics
	captureLimit int64
}

// RequestLoggerOption configures a RequestLogger
type RequestLoggerOption func(*RequestLogger)

// WithCaptureMetrics records captured body sizes and emission outcomes
func WithCaptureMetrics(m *observability.OTelMetrics) RequestLoggerOption {
	return func(l *RequestLogger) {
		l.metrics = m
	}
}

// WithCaptureLimit caps how many request body bytes are read for the record.
// Bytes past the limit are neither buffered nor drained. A limit <= 0 keeps
// DefaultCaptureLimit.
func WithCaptureLimit(limit int64) RequestLoggerOption {
	return func(l *RequestLogger) {
		if limit > 0 {
			l.captureLimit = limit
		}
	}
}

// NewRequestLogger creates a request logger writing to logger
func NewRequestLogger(logger *observability.Logger, opts ...RequestLoggerOption) *RequestLogger {
	l := &RequestLogger{logger: logger, captureLimit: DefaultCaptureLimit}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Handler wraps next. The response is held until next returns and is then sent
// exactly once, whether next returned, panicked, or the client went away.
// A panic from next is logged and answered like a return, except
// http.ErrAbortHandler: nothing is sent and the panic is re-raised so net/http
// drops the connection. The record still shows what the handler produced.
func (l *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := observability.BeginCorrelation(r.Context())
		start := time.Now()
		ctx = contextkeys.WithRequestStartTime(ctx, start)
		ctx = observability.WithLogger(ctx, l.logger)

		body := capture.NewRequestBody(r.Body, l.captureLimit)
		req := r.WithContext(ctx)
		req.Body = body
		rec := capture.NewResponseRecorder(w)

		defer func() {
			panicked := recover()
			aborted := panicked == http.ErrAbortHandler
			if panicked != nil && !aborted {
				l.guard(ctx, func() {
					l.logger.WithContext(ctx).
						WithField("panic", fmt.Sprintf("%v", panicked)).
						WithField("stack", string(debug.Stack())).
						Error("Panic while handling request")
				})
				if !rec.Written() {
					rec.WriteHeader(http.StatusInternalServerError)
				}
			}

			elapsed := time.Since(start).Milliseconds()
			reqBytes := body.Bytes()
			respBytes := rec.Bytes()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.URL.EscapedPath()),
				slog.Int("statusCode", rec.Status()),
				slog.String("requestHeaders", FormatHeaders(req)),
				slog.String("requestBody", capture.DecodeBody(reqBytes, req.Header.Get("Content-Type"))),
				slog.String("responseBody", capture.DecodeBody(respBytes, rec.Header().Get("Content-Type"))),
				slog.Int64("timeTakenMs", elapsed),
			}

			if !aborted {
				if err := rec.FlushToClient(); err != nil {
					l.guard(ctx, func() {
						l.logger.WithContext(ctx).WithError(err).Debug("Failed to write response to client")
					})
				}
			}
			if body.Truncated() {
				l.guard(ctx, func() {
					l.logger.WithContext(ctx).WithField("limit", l.captureLimit).Debug("Request body truncated for logging")
				})
			}

			l.metrics.RecordCapture(ctx, observability.DirectionRequest, len(reqBytes))
			l.metrics.RecordCapture(ctx, observability.DirectionResponse, len(respBytes))
			l.emit(req, rec.Status(), attrs)

			scope.End()

			if aborted {
				panic(panicked)
			}
		}()

		next.ServeHTTP(rec, req)
	})
}

// emit writes the record
func (l *RequestLogger) emit(r *http.Request, status int, attrs []slog.Attr) {
	ctx := r.Context()
	l.guard(ctx, func() {
		l.logger.LogAttrs(ctx, observability.InfoLevel, RequestLogMessage, attrs...)
		l.metrics.RecordLogged(ctx, status)
	})
}

// guard runs a logging call. A failing sink must not affect the response.
func (l *RequestLogger) guard(ctx context.Context, fn func()) {
	defer func() {
		if recover() != nil {
			l.metrics.RecordLogFailure(ctx)
		}
	}()
	fn()
}

// FormatHeaders renders request headers as "Name:value" pairs joined by ", ".
// Names are sorted as received (net/http canonicalizes them); repeated values are joined by ",".
// Host is not part of r.Header in net/http, so it is taken from r.Host.
func FormatHeaders(r *http.Request) string {
	names := make([]string, 0, len(r.Header)+1)
	for name := range r.Header {
		names = append(names, name)
	}
	if r.Host != "" && r.Header.Get("Host") == "" {
		names = append(names, "Host")
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.Join(r.Header[name], ",")
		if name == "Host" && value == "" {
			value = r.Host
		}
		pairs = append(pairs, name+":"+value)
	}
	return strings.Join(pairs, ", ")
}
