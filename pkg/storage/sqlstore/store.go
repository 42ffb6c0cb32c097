package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/platinummonkey/reel/pkg/observability"
	"github.com/platinummonkey/reel/pkg/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store over database/sql. Writes go to the primary,
// reads to a replica when one is configured.
type Store struct {
	conns   *ConnectionManager
	dialect Dialect
	metrics *observability.Metrics
	logger  *observability.Logger
}

// Option configures a Store
type Option func(*Store)

// WithMetrics records per-operation metrics and codec failures
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithLogger sets the logger used for background messages
func WithLogger(l *observability.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a Store over conns
func New(conns *ConnectionManager, opts ...Option) *Store {
	s := &Store{
		conns:   conns,
		dialect: conns.Dialect(),
		logger:  conns.logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects using cfg and migrates the schema when cfg.AutoMigrate is set
func Open(ctx context.Context, cfg storage.Config, logger *observability.Logger, opts ...Option) (*Store, error) {
	dialect, err := ParseDialect(cfg.Type)
	if err != nil {
		return nil, err
	}

	conns, err := NewConnectionManager(ConnectionConfig{
		Dialect:     dialect,
		PrimaryURL:  cfg.DatabaseURL,
		ReplicaURLs: cfg.ReplicaURLs,
		MaxConns:    cfg.MaxConns,
		MinConns:    cfg.MinConns,
		Timeout:     cfg.Timeout,
		MaxLifetime: cfg.MaxLifetime,
		MaxIdleTime: cfg.MaxIdleTime,
	}, logger)
	if err != nil {
		return nil, err
	}

	s := New(conns, append([]Option{WithLogger(logger)}, opts...)...)
	if cfg.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			conns.Close()
			return nil, err
		}
	}
	return s, nil
}

// Connections exposes the connection manager for health and stats wiring
func (s *Store) Connections() *ConnectionManager {
	return s.conns
}

// DB returns the primary handle
func (s *Store) DB() *sql.DB {
	return s.conns.Primary()
}

// Migrate creates the schema and seeds reference data
func (s *Store) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.conns.Primary(), s.dialect)
}

// HealthCheck pings the primary and replicas
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.conns.HealthCheck(ctx)
}

// Close closes every connection
func (s *Store) Close() error {
	return s.conns.Close()
}

func (s *Store) rebind(query string) string {
	return s.dialect.Rebind(query)
}

// observe records op with the error *errp holds when the deferred call runs.
// A lookup miss is an expected outcome, not a failure.
func (s *Store) observe(op string, start time.Time, errp *error) {
	err := *errp
	if errors.Is(err, storage.ErrNotFound) {
		err = nil
	}
	s.metrics.ObserveStorage(op, s.dialect.String(), start, err)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// trimChar drops the padding of CHAR(n) columns
func trimChar(s string) string {
	return strings.TrimRight(s, " ")
}

// escapeLike escapes LIKE wildcards so keyword matches literally
func escapeLike(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(keyword)
}

func rowsAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return &storage.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}
