package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/platinummonkey/reel/pkg/catalog"
	"github.com/platinummonkey/reel/pkg/storage"
)

const filmSelect = `SELECT f.film_id, f.title, f.description, f.release_year, f.language_id, l.name,
	f.original_language_id, f.rental_duration, f.rental_rate, f.length, f.replacement_cost,
	f.rating, f.special_features, f.last_update
FROM film f
JOIN language l ON l.language_id = f.language_id`

// scanFilm reads one film row. Rating and special features are decoded here so
// a bad stored value fails the read instead of reaching a client.
func (s *Store) scanFilm(row rowScanner) (*catalog.Film, error) {
	var (
		f                catalog.Film
		description      sql.NullString
		releaseYear      sql.NullInt64
		originalLanguage sql.NullInt64
		length           sql.NullInt64
		rating           sql.NullString
		features         sql.NullString
	)

	err := row.Scan(
		&f.ID,
		&f.Title,
		&description,
		&releaseYear,
		&f.LanguageID,
		&f.LanguageName,
		&originalLanguage,
		&f.RentalDuration,
		&f.RentalRate,
		&length,
		&f.ReplacementCost,
		&rating,
		&features,
		&f.LastUpdate,
	)
	if err != nil {
		return nil, err
	}

	f.Description = description.String
	f.ReleaseYear = intPtr(releaseYear)
	f.OriginalLanguageID = int64Ptr(originalLanguage)
	f.Length = intPtr(length)
	f.LanguageName = trimChar(f.LanguageName)

	if f.Rating, err = catalog.DecodeRating(rating); err != nil {
		s.metrics.RecordCodecError("rating")
		return nil, fmt.Errorf("failed to decode rating of film %d: %w", f.ID, err)
	}
	if f.SpecialFeatures, err = catalog.DecodeFeatureSet(features); err != nil {
		s.metrics.RecordCodecError("special_features")
		return nil, fmt.Errorf("failed to decode special features of film %d: %w", f.ID, err)
	}

	return &f, nil
}

func (s *Store) queryFilms(ctx context.Context, query string, args ...interface{}) ([]*catalog.Film, error) {
	rows, err := s.conns.Replica().QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	defer rows.Close()

	films := make([]*catalog.Film, 0)
	for rows.Next() {
		f, err := s.scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query films: %w", err)
	}
	return films, nil
}

// GetFilm returns the film with id
func (s *Store) GetFilm(ctx context.Context, id int64) (film *catalog.Film, err error) {
	defer s.observe("get_film", time.Now(), &err)

	row := s.conns.Replica().QueryRowContext(ctx, s.rebind(filmSelect+` WHERE f.film_id = ?`), id)
	film, err = s.scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Resource: "Film", ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get film: %w", err)
	}
	return film, nil
}

// ListFilms returns one page of films ordered by id
func (s *Store) ListFilms(ctx context.Context, page storage.Page) (films []*catalog.Film, err error) {
	defer s.observe("list_films", time.Now(), &err)

	return s.queryFilms(ctx, filmSelect+` ORDER BY f.film_id LIMIT ? OFFSET ?`, page.Limit(), page.Offset())
}

// FindFilmsByReleaseYear returns the films released in year
func (s *Store) FindFilmsByReleaseYear(ctx context.Context, year int) (films []*catalog.Film, err error) {
	defer s.observe("find_films_by_year", time.Now(), &err)

	return s.queryFilms(ctx, filmSelect+` WHERE f.release_year = ? ORDER BY f.film_id`, year)
}

// FindFilmsByRating returns the films with rating. RatingNone matches unrated films.
func (s *Store) FindFilmsByRating(ctx context.Context, rating catalog.Rating) (films []*catalog.Film, err error) {
	defer s.observe("find_films_by_rating", time.Now(), &err)

	if !rating.Valid() {
		return s.queryFilms(ctx, filmSelect+` WHERE f.rating IS NULL ORDER BY f.film_id`)
	}
	return s.queryFilms(ctx, filmSelect+` WHERE f.rating = ? ORDER BY f.film_id`, catalog.EncodeRating(rating))
}

// FindFilmsLongerThan returns the films strictly longer than minutes
func (s *Store) FindFilmsLongerThan(ctx context.Context, minutes int) (films []*catalog.Film, err error) {
	defer s.observe("find_films_longer_than", time.Now(), &err)

	return s.queryFilms(ctx, filmSelect+` WHERE f.length > ? ORDER BY f.film_id`, minutes)
}

// SearchFilmsByTitle returns one page of films whose title contains keyword, ignoring case
func (s *Store) SearchFilmsByTitle(ctx context.Context, keyword string, page storage.Page) (films []*catalog.Film, err error) {
	defer s.observe("search_films_by_title", time.Now(), &err)

	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	return s.queryFilms(ctx,
		filmSelect+` WHERE LOWER(f.title) LIKE ? ESCAPE '\' ORDER BY f.film_id LIMIT ? OFFSET ?`,
		pattern, page.Limit(), page.Offset())
}

// FindFilmsByLanguageName returns the films whose language has exactly name
func (s *Store) FindFilmsByLanguageName(ctx context.Context, name string) (films []*catalog.Film, err error) {
	defer s.observe("find_films_by_language", time.Now(), &err)

	return s.queryFilms(ctx, filmSelect+` WHERE l.name = ? ORDER BY f.film_id`, name)
}

// CreateFilm inserts film and sets its ID and LastUpdate
func (s *Store) CreateFilm(ctx context.Context, film *catalog.Film) (err error) {
	defer s.observe("create_film", time.Now(), &err)

	now := time.Now().UTC()
	query := `INSERT INTO film (title, description, release_year, language_id, original_language_id,
		rental_duration, rental_rate, length, replacement_cost, rating, special_features, last_update)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING film_id`

	err = s.conns.Primary().QueryRowContext(ctx, s.rebind(query), s.filmArgs(film, now)...).Scan(&film.ID)
	if err != nil {
		return fmt.Errorf("failed to create film: %w", err)
	}

	film.LastUpdate = now
	return nil
}

// UpdateFilm overwrites every column of the film with film.ID
func (s *Store) UpdateFilm(ctx context.Context, film *catalog.Film) (err error) {
	defer s.observe("update_film", time.Now(), &err)

	now := time.Now().UTC()
	query := `UPDATE film SET title = ?, description = ?, release_year = ?, language_id = ?,
		original_language_id = ?, rental_duration = ?, rental_rate = ?, length = ?,
		replacement_cost = ?, rating = ?, special_features = ?, last_update = ?
		WHERE film_id = ?`

	args := append(s.filmArgs(film, now), film.ID)
	res, err := s.conns.Primary().ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update film: %w", err)
	}
	if err := rowsAffected(res, "Film", film.ID); err != nil {
		return err
	}

	film.LastUpdate = now
	return nil
}

// DeleteFilm removes the film with id
func (s *Store) DeleteFilm(ctx context.Context, id int64) (err error) {
	defer s.observe("delete_film", time.Now(), &err)

	res, err := s.conns.Primary().ExecContext(ctx, s.rebind(`DELETE FROM film WHERE film_id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete film: %w", err)
	}
	return rowsAffected(res, "Film", id)
}

func (s *Store) filmArgs(film *catalog.Film, lastUpdate time.Time) []interface{} {
	return []interface{}{
		film.Title,
		nullString(film.Description),
		nullInt(film.ReleaseYear),
		film.LanguageID,
		nullInt64(film.OriginalLanguageID),
		film.RentalDuration,
		film.RentalRate,
		nullInt(film.Length),
		film.ReplacementCost,
		catalog.EncodeRating(film.Rating),
		catalog.EncodeFeatureSet(film.SpecialFeatures),
		lastUpdate,
	}
}
