// Package storage defines the persistence boundary of the film catalog.
//
// # Interfaces
//
// Store composes the per-resource interfaces the API depends on:
//
//   - FilmReader / FilmWriter: films, paged listing and the search queries
//   - ActorStore: actor CRUD
//   - LanguageStore: the read-only language table
//   - HealthChecker
//
// Every method takes a context.Context. A missing row is reported as a
// *NotFoundError, which matches ErrNotFound with errors.Is:
//
//	film, err := store.GetFilm(ctx, id)
//	if errors.Is(err, storage.ErrNotFound) {
//		// 404
//	}
//
// # Backends
//
// pkg/storage/sqlstore implements Store on database/sql for SQLite and
// PostgreSQL. pkg/storage/cache wraps any Store with an in-process LRU and an
// optional Redis layer for film lookups by id.
//
// Config carries the settings for both; DefaultConfig uses a local SQLite
// file and no Redis.
package storage
