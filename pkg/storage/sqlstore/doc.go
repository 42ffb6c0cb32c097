// Package sqlstore implements storage.Store on database/sql.
//
// Two dialects are supported. SQLite (github.com/mattn/go-sqlite3) is the
// default and keeps a single connection so ":memory:" databases survive for
// the life of the pool. PostgreSQL (github.com/lib/pq) supports read replicas,
// which serve queries in round robin while writes go to the primary.
//
//	store, err := sqlstore.Open(ctx, cfg, logger, sqlstore.WithMetrics(metrics))
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
// Queries are written with "?" placeholders and rebound for the dialect.
// Ratings and special features are decoded while scanning; a stored value
// outside the known set fails the read and is counted in the codec error
// metric.
package sqlstore
