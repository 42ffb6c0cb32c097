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

const actorColumns = `actor_id, first_name, last_name, last_update`

func scanActor(row rowScanner) (*catalog.Actor, error) {
	var a catalog.Actor
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.LastUpdate); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListActors returns every actor ordered by id
func (s *Store) ListActors(ctx context.Context) (actors []*catalog.Actor, err error) {
	defer s.observe("list_actors", time.Now(), &err)

	rows, err := s.conns.Replica().QueryContext(ctx, `SELECT `+actorColumns+` FROM actor ORDER BY actor_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	defer rows.Close()

	actors = make([]*catalog.Actor, 0)
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		actors = append(actors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	return actors, nil
}

// GetActor returns the actor with id
func (s *Store) GetActor(ctx context.Context, id int64) (actor *catalog.Actor, err error) {
	defer s.observe("get_actor", time.Now(), &err)

	row := s.conns.Replica().QueryRowContext(ctx,
		s.rebind(`SELECT `+actorColumns+` FROM actor WHERE actor_id = ?`), id)

	actor, err = scanActor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &storage.NotFoundError{Resource: "Actor", ID: id}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get actor: %w", err)
	}
	return actor, nil
}

// CreateActor inserts actor and sets its ID and LastUpdate
func (s *Store) CreateActor(ctx context.Context, actor *catalog.Actor) (err error) {
	defer s.observe("create_actor", time.Now(), &err)

	now := time.Now().UTC()
	err = s.conns.Primary().QueryRowContext(ctx,
		s.rebind(`INSERT INTO actor (first_name, last_name, last_update) VALUES (?, ?, ?) RETURNING actor_id`),
		actor.FirstName, actor.LastName, now,
	).Scan(&actor.ID)
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}

	actor.LastUpdate = now
	return nil
}

// UpdateActor replaces the names of the actor with actor.ID
func (s *Store) UpdateActor(ctx context.Context, actor *catalog.Actor) (err error) {
	defer s.observe("update_actor", time.Now(), &err)

	now := time.Now().UTC()
	res, err := s.conns.Primary().ExecContext(ctx,
		s.rebind(`UPDATE actor SET first_name = ?, last_name = ?, last_update = ? WHERE actor_id = ?`),
		actor.FirstName, actor.LastName, now, actor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update actor: %w", err)
	}
	if err := rowsAffected(res, "Actor", actor.ID); err != nil {
		return err
	}

	actor.LastUpdate = now
	return nil
}

// DeleteActor removes the actor with id
func (s *Store) DeleteActor(ctx context.Context, id int64) (err error) {
	defer s.observe("delete_actor", time.Now(), &err)

	res, err := s.conns.Primary().ExecContext(ctx, s.rebind(`DELETE FROM actor WHERE actor_id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete actor: %w", err)
	}
	return rowsAffected(res, "Actor", id)
}
