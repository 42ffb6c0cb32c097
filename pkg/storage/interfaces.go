package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/reel/pkg/catalog"
)

// ErrNotFound is matched by every lookup miss
var ErrNotFound = errors.New("not found")

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %v", e.Resource, e.ID)
}

// Is reports whether target is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Page selects a zero-based page of results
type Page struct {
	Number int
	Size   int
}

// DefaultPageSize is used when a page size is not positive
const DefaultPageSize = 10

// Limit returns the page size, never less than one
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

// Offset returns the number of rows to skip
func (p Page) Offset() int {
	if p.Number <= 0 {
		return 0
	}
	return p.Number * p.Limit()
}

// FilmReader provides read access to films
type FilmReader interface {
	GetFilm(ctx context.Context, id int64) (*catalog.Film, error)
	ListFilms(ctx context.Context, page Page) ([]*catalog.Film, error)
	FindFilmsByReleaseYear(ctx context.Context, year int) ([]*catalog.Film, error)
	FindFilmsByRating(ctx context.Context, rating catalog.Rating) ([]*catalog.Film, error)
	FindFilmsLongerThan(ctx context.Context, minutes int) ([]*catalog.Film, error)
	SearchFilmsByTitle(ctx context.Context, keyword string, page Page) ([]*catalog.Film, error)
	FindFilmsByLanguageName(ctx context.Context, name string) ([]*catalog.Film, error)
}

// FilmWriter provides write access to films
type FilmWriter interface {
	// CreateFilm assigns ID and LastUpdate on success
	CreateFilm(ctx context.Context, film *catalog.Film) error
	UpdateFilm(ctx context.Context, film *catalog.Film) error
	DeleteFilm(ctx context.Context, id int64) error
}

// FilmStore combines film reads and writes
type FilmStore interface {
	FilmReader
	FilmWriter
}

// ActorStore provides access to actors
type ActorStore interface {
	ListActors(ctx context.Context) ([]*catalog.Actor, error)
	GetActor(ctx context.Context, id int64) (*catalog.Actor, error)
	CreateActor(ctx context.Context, actor *catalog.Actor) error
	UpdateActor(ctx context.Context, actor *catalog.Actor) error
	DeleteActor(ctx context.Context, id int64) error
}

// LanguageStore provides read access to languages
type LanguageStore interface {
	ListLanguages(ctx context.Context) ([]*catalog.Language, error)
	GetLanguage(ctx context.Context, id int64) (*catalog.Language, error)
}

// HealthChecker provides backend health monitoring
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Store is everything the API needs from persistence
type Store interface {
	FilmStore
	ActorStore
	LanguageStore
	HealthChecker
	Close() error
}

// Config for storage backend
type Config struct {
	Type string // "sqlite" or "postgres"

	// Database config
	DatabaseURL string
	ReplicaURLs []string
	MaxConns    int
	MinConns    int
	Timeout     time.Duration
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
	AutoMigrate bool

	// Redis config
	RedisURL        string
	RedisPassword   string
	RedisDB         int
	RedisMaxRetries int
	RedisPoolSize   int

	// Cache config
	CacheEnabled bool
	CacheTTL     time.Duration
	L1CacheSize  int // Entries
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Type:            "sqlite",
		DatabaseURL:     "file:reel.db?_foreign_keys=on",
		MaxConns:        20,
		MinConns:        2,
		Timeout:         10 * time.Second,
		MaxLifetime:     time.Hour,
		MaxIdleTime:     10 * time.Minute,
		AutoMigrate:     true,
		RedisDB:         0,
		RedisMaxRetries: 3,
		RedisPoolSize:   10,
		CacheEnabled:    true,
		CacheTTL:        5 * time.Minute,
		L1CacheSize:     1000,
	}
}
