package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, 20, cfg.MaxConns)
	assert.Equal(t, 2, cfg.MinConns)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 3, cfg.RedisMaxRetries)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1000, cfg.L1CacheSize)
}

func TestPage(t *testing.T) {
	tests := []struct {
		name   string
		page   Page
		limit  int
		offset int
	}{
		{name: "first page", page: Page{Number: 0, Size: 10}, limit: 10, offset: 0},
		{name: "third page", page: Page{Number: 2, Size: 25}, limit: 25, offset: 50},
		{name: "zero size uses default", page: Page{Number: 1}, limit: DefaultPageSize, offset: DefaultPageSize},
		{name: "negative number", page: Page{Number: -3, Size: 5}, limit: 5, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.limit, tt.page.Limit())
			assert.Equal(t, tt.offset, tt.page.Offset())
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Resource: "Film", ID: int64(42)}

	assert.Equal(t, "Film not found with id: 42", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", err), ErrNotFound))

	var nf *NotFoundError
	assert.True(t, errors.As(fmt.Errorf("lookup: %w", err), &nf))
	assert.Equal(t, "Film", nf.Resource)
}
