package observability

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/platinummonkey/reel/pkg/contextkeys"
)

// CorrelationID tags every log record emitted while handling one request
type CorrelationID string

func (id CorrelationID) String() string {
	return string(id)
}

// CorrelationScope binds one CorrelationID to one request context.
// The binding lives in the context, so concurrent requests never see each other's id.
type CorrelationScope struct {
	id     CorrelationID
	parent *CorrelationScope
	ended  atomic.Bool
}

// BeginCorrelation opens a scope with a freshly generated id and returns a context carrying it.
// A scope already present in ctx is shadowed until the new one ends.
func BeginCorrelation(ctx context.Context) (context.Context, *CorrelationScope) {
	scope := &CorrelationScope{
		id:     CorrelationID(uuid.New().String()),
		parent: scopeFromContext(ctx),
	}
	return context.WithValue(ctx, contextkeys.CorrelationKey, scope), scope
}

// ID returns the scope's correlation id
func (s *CorrelationScope) ID() CorrelationID {
	return s.id
}

// End retracts the id. Contexts derived from the scope stop reporting it,
// including ones captured by goroutines that outlive the request.
func (s *CorrelationScope) End() {
	s.ended.Store(true)
}

// Active reports whether End has not been called yet
func (s *CorrelationScope) Active() bool {
	return !s.ended.Load()
}

// CorrelationIDFromContext returns the id of the innermost active scope in ctx
func CorrelationIDFromContext(ctx context.Context) (CorrelationID, bool) {
	for s := scopeFromContext(ctx); s != nil; s = s.parent {
		if s.Active() {
			return s.id, true
		}
	}
	return "", false
}

func scopeFromContext(ctx context.Context) *CorrelationScope {
	if ctx == nil {
		return nil
	}
	scope, _ := ctx.Value(contextkeys.CorrelationKey).(*CorrelationScope)
	return scope
}
