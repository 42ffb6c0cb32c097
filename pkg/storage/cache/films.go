package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/reel/pkg/catalog"
	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
)

const (
	layerMemory = "memory"
	layerRedis  = "redis"

	defaultSize = 1000
	defaultTTL  = 5 * time.Minute
	keyPrefix   = "reel:film:"
)

// FilmCache caches films by id in front of a storage.Store. Lookups try an
// in-process LRU first, then Redis when configured, then the store. Writes go
// to the store and drop the film from both layers. Redis errors are logged and
// the store is used instead.
//
// Lists and searches are not cached.
type FilmCache struct {
	storage.Store

	memory  *lru.LRU[int64, *catalog.Film]
	redis   *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *observability.Logger
}

// Option configures a FilmCache
type Option func(*FilmCache)

// WithRedis adds a shared second cache layer
func WithRedis(client *redis.Client) Option {
	return func(c *FilmCache) {
		c.redis = client
	}
}

// WithMetrics records hits, misses and evictions
func WithMetrics(m *observability.Metrics) Option {
	return func(c *FilmCache) {
		c.metrics = m
	}
}

// WithLogger sets the logger used for Redis failures
func WithLogger(l *observability.Logger) Option {
	return func(c *FilmCache) {
		c.logger = l
	}
}

var _ storage.Store = (*FilmCache)(nil)

// NewFilmCache wraps store. size and ttl fall back to 1000 entries and five
// minutes when not positive.
func NewFilmCache(store storage.Store, size int, ttl time.Duration, opts ...Option) *FilmCache {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	c := &FilmCache{
		Store: store,
		ttl:   ttl,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = observability.NewLogger(observability.InfoLevel, os.Stdout)
	}

	c.memory = lru.NewLRU[int64, *catalog.Film](size, func(int64, *catalog.Film) {
		c.metrics.RecordCacheEviction(layerMemory, "removed")
	}, ttl)

	return c
}

// GetFilm returns the film with id from the first layer that has it
func (c *FilmCache) GetFilm(ctx context.Context, id int64) (*catalog.Film, error) {
	if film, ok := c.memory.Get(id); ok {
		c.metrics.RecordCacheHit(layerMemory)
		return cloneFilm(film), nil
	}
	c.metrics.RecordCacheMiss(layerMemory)

	if film := c.getRemote(ctx, id); film != nil {
		c.metrics.RecordCacheHit(layerRedis)
		c.memory.Add(id, film)
		return cloneFilm(film), nil
	}

	film, err := c.Store.GetFilm(ctx, id)
	if err != nil {
		return nil, err
	}

	c.memory.Add(id, cloneFilm(film))
	c.setRemote(ctx, film)
	return film, nil
}

// UpdateFilm writes through to the store and invalidates the film
func (c *FilmCache) UpdateFilm(ctx context.Context, film *catalog.Film) error {
	if err := c.Store.UpdateFilm(ctx, film); err != nil {
		return err
	}
	c.invalidate(ctx, film.ID)
	return nil
}

// DeleteFilm removes the film from the store and both layers
func (c *FilmCache) DeleteFilm(ctx context.Context, id int64) error {
	if err := c.Store.DeleteFilm(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// Purge empties the in-process layer
func (c *FilmCache) Purge() {
	c.memory.Purge()
}

// Len returns the number of films held in process
func (c *FilmCache) Len() int {
	return c.memory.Len()
}

func (c *FilmCache) invalidate(ctx context.Context, id int64) {
	c.memory.Remove(id)
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, filmKey(id)).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("film_id", id).Warn("Failed to invalidate cached film")
	}
}

// getRemote returns nil on a miss, on a Redis error, and on undecodable data
func (c *FilmCache) getRemote(ctx context.Context, id int64) *catalog.Film {
	if c.redis == nil {
		return nil
	}

	key := filmKey(id)
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.RecordCacheMiss(layerRedis)
		return nil
	} else if err != nil {
		c.metrics.RecordCacheMiss(layerRedis)
		c.logger.WithContext(ctx).WithError(err).Warn("Redis get failed, reading from store")
		return nil
	}

	var film catalog.Film
	if err := json.Unmarshal(data, &film); err != nil {
		c.metrics.RecordCacheMiss(layerRedis)
		c.metrics.RecordCacheEviction(layerRedis, "corrupt")
		c.redis.Del(ctx, key)
		c.logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Dropped undecodable cached film")
		return nil
	}
	return &film
}

func (c *FilmCache) setRemote(ctx context.Context, film *catalog.Film) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(film)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Failed to marshal film for cache")
		return
	}
	if err := c.redis.Set(ctx, filmKey(film.ID), data, c.ttl).Err(); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Redis set failed")
	}
}

func filmKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// cloneFilm copies film so callers cannot modify a cached entry
func cloneFilm(film *catalog.Film) *catalog.Film {
	cp := *film
	if film.ReleaseYear != nil {
		year := *film.ReleaseYear
		cp.ReleaseYear = &year
	}
	if film.OriginalLanguageID != nil {
		lang := *film.OriginalLanguageID
		cp.OriginalLanguageID = &lang
	}
	if film.Length != nil {
		length := *film.Length
		cp.Length = &length
	}
	return &cp
}
