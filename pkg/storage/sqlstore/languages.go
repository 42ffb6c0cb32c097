package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/reel/pkg/catalog"
	"github.com/platinummonkey/reel/pkg/storage"
)

const languageColumns = `language_id, name, last_update`

func scanLanguage(row rowScanner) (*catalog.Language, error) {
	var l catalog.Language
	if err := row.Scan(&l.ID, &l.Name, &l.LastUpdate); err != nil {
		return nil, err
	}
	l.Name = trimChar(l.Name)
	return &l, nil
}

// ListLanguages returns every language ordered by id
func (s *Store) ListLanguages(ctx context.Context) (languages []*catalog.Language, err error) {
	defer s.observe("list_languages", time.Now(), &err)

	rows, err := s.conns.Replica().QueryContext(ctx, `SELECT `+languageColumns+` FROM language ORDER BY language_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	defer rows.Close()

	languages = make([]*catalog.Language, 0)
	for rows.Next() {
		l, err := scanLanguage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan language: %w", err)
		}
		languages = append(languages, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// GetLanguage returns the language with id
func (s *Store) GetLanguage(ctx context.Context, id int64) (language *catalog.Language, err error) {
	defer s.observe("get_language", time.Now(), &err)

	row := s.conns.Replica().QueryRowContext(ctx,
		s.rebind(`SELECT `+languageColumns+` FROM language WHERE language_id = ?`), id)

	language, err = scanLanguage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Resource: "Language", ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get language: %w", err)
	}
	return language, nil
}
