package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// named rows are the shared shape of roles and genres: an id and a unique name.
type named struct {
	ID   uuid.UUID
	Name string
}

func (s *Store) listNamed(ctx context.Context, table string) ([]named, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id, name FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectNamed(rows)
}

func (s *Store) getNamed(ctx context.Context, table string, id uuid.UUID) (named, error) {
	var n named
	err := s.q.QueryRowContext(ctx, `SELECT id, name FROM `+table+` WHERE id = $1`, id).Scan(&n.ID, &n.Name)
	return n, translate(err)
}

func (s *Store) getNamedByName(ctx context.Context, table, name string) (named, error) {
	var n named
	err := s.q.QueryRowContext(ctx, `SELECT id, name FROM `+table+` WHERE name = $1`, name).Scan(&n.ID, &n.Name)
	return n, translate(err)
}

func (s *Store) getNamedByNames(ctx context.Context, table string, names []string) ([]named, error) {
	if len(names) == 0 {
		return []named{}, nil
	}
	rows, err := s.q.QueryContext(ctx, `SELECT id, name FROM `+table+` WHERE name = ANY($1) ORDER BY name`, pq.Array(names))
	if err != nil {
		return nil, err
	}
	return collectNamed(rows)
}

func (s *Store) createNamed(ctx context.Context, table string, n named) (named, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	_, err := s.q.ExecContext(ctx, `INSERT INTO `+table+` (id, name) VALUES ($1, $2)`, n.ID, n.Name)
	if err != nil {
		return named{}, translate(err)
	}
	return n, nil
}

func (s *Store) updateNamed(ctx context.Context, table string, n named) (named, error) {
	result, err := s.q.ExecContext(ctx, `UPDATE `+table+` SET name = $1 WHERE id = $2`, n.Name, n.ID)
	if err != nil {
		return named{}, translate(err)
	}
	if err := expectAffected(result); err != nil {
		return named{}, err
	}
	return n, nil
}

func (s *Store) deleteNamed(ctx context.Context, table string, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func collectNamed(rows *sql.Rows) ([]named, error) {
	defer rows.Close()

	items := []named{}
	for rows.Next() {
		var n named
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
