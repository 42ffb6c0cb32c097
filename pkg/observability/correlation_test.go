package observability

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginCorrelation(t *testing.T) {
	ctx, scope := BeginCorrelation(context.Background())
	require.NotNil(t, scope)

	_, err := uuid.Parse(scope.ID().String())
	require.NoError(t, err, "id must be canonical UUID text")

	id, ok := CorrelationIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, scope.ID(), id)
	assert.True(t, scope.Active())
}

func TestCorrelationIDFromContext_NoScope(t *testing.T) {
	id, ok := CorrelationIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)

	//nolint:staticcheck // nil context is tolerated
	id, ok = CorrelationIDFromContext(nil)
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestCorrelationScope_End(t *testing.T) {
	ctx, scope := BeginCorrelation(context.Background())
	derived, cancel := context.WithCancel(ctx)
	defer cancel()

	scope.End()
	scope.End()

	_, ok := CorrelationIDFromContext(ctx)
	assert.False(t, ok)

	_, ok = CorrelationIDFromContext(derived)
	assert.False(t, ok, "contexts derived before End must not report the id")
	assert.False(t, scope.Active())
}

func TestCorrelationScope_Nested(t *testing.T) {
	outerCtx, outer := BeginCorrelation(context.Background())
	innerCtx, inner := BeginCorrelation(outerCtx)
	require.NotEqual(t, outer.ID(), inner.ID())

	id, _ := CorrelationIDFromContext(innerCtx)
	assert.Equal(t, inner.ID(), id)

	inner.End()
	id, ok := CorrelationIDFromContext(innerCtx)
	assert.True(t, ok)
	assert.Equal(t, outer.ID(), id)

	outer.End()
	_, ok = CorrelationIDFromContext(innerCtx)
	assert.False(t, ok)
}

func TestCorrelationScope_Isolation(t *testing.T) {
	const workers = 100

	ids := make([]CorrelationID, workers)
	seen := make([]CorrelationID, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, scope := BeginCorrelation(context.Background())
			defer scope.End()
			ids[i] = scope.ID()
			<-start
			seen[i], _ = CorrelationIDFromContext(ctx)
		}(i)
	}
	close(start)
	wg.Wait()

	unique := make(map[CorrelationID]struct{}, workers)
	for i := 0; i < workers; i++ {
		assert.Equal(t, ids[i], seen[i])
		unique[ids[i]] = struct{}{}
	}
	assert.Len(t, unique, workers)
}
