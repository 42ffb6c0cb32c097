package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS language (
		language_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name CHAR(20) NOT NULL,
		last_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS film (
		film_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		release_year INTEGER,
		language_id INTEGER NOT NULL REFERENCES language (language_id),
		original_language_id INTEGER REFERENCES language (language_id),
		rental_duration INTEGER NOT NULL DEFAULT 3,
		rental_rate NUMERIC(4,2) NOT NULL DEFAULT 4.99,
		length INTEGER,
		replacement_cost NUMERIC(5,2) NOT NULL DEFAULT 19.99,
		rating VARCHAR(5) DEFAULT 'G',
		special_features TEXT,
		last_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_film_title ON film (title)`,
	`CREATE INDEX IF NOT EXISTS idx_film_language_id ON film (language_id)`,
	`CREATE TABLE IF NOT EXISTS actor (
		actor_id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name VARCHAR(45) NOT NULL,
		last_name VARCHAR(45) NOT NULL,
		last_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actor_last_name ON actor (last_name)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS language (
		language_id SMALLSERIAL PRIMARY KEY,
		name CHAR(20) NOT NULL,
		last_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS film (
		film_id SERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		release_year INTEGER,
		language_id SMALLINT NOT NULL REFERENCES language (language_id),
		original_language_id SMALLINT REFERENCES language (language_id),
		rental_duration SMALLINT NOT NULL DEFAULT 3,
		rental_rate NUMERIC(4,2) NOT NULL DEFAULT 4.99,
		length SMALLINT,
		replacement_cost NUMERIC(5,2) NOT NULL DEFAULT 19.99,
		rating VARCHAR(5) DEFAULT 'G',
		special_features TEXT,
		last_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_film_title ON film (title)`,
	`CREATE INDEX IF NOT EXISTS idx_film_language_id ON film (language_id)`,
	`CREATE TABLE IF NOT EXISTS actor (
		actor_id SERIAL PRIMARY KEY,
		first_name VARCHAR(45) NOT NULL,
		last_name VARCHAR(45) NOT NULL,
		last_update TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_actor_last_name ON actor (last_name)`,
}

// SeedLanguages are inserted into an empty language table
var SeedLanguages = []string{"English", "Italian", "Japanese", "Mandarin", "French", "German"}

// Migrate creates the tables and indexes and seeds the language table. It is
// safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	statements := sqliteSchema
	if dialect == DialectPostgres {
		statements = postgresSchema
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM language").Scan(&count); err != nil {
		return fmt.Errorf("failed to count languages: %w", err)
	}
	if count == 0 {
		insert := dialect.Rebind("INSERT INTO language (name) VALUES (?)")
		for _, name := range SeedLanguages {
			if _, err := tx.ExecContext(ctx, insert, name); err != nil {
				return fmt.Errorf("failed to seed language %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
