package postgres

import (
	"context"
	"fmt"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type linkTable struct {
	table   string
	owner   string
	target  string
	targets string
}

var linkTables = map[store.Association]linkTable{
	store.UserRoles:  {table: "user_roles", owner: "user_id", target: "role_id", targets: rolesTable},
	store.GameGenres: {table: "game_genres", owner: "game_id", target: "genre_id", targets: genresTable},
}

func lookupLinkTable(assoc store.Association) (linkTable, error) {
	lt, ok := linkTables[assoc]
	if !ok {
		return linkTable{}, fmt.Errorf("unknown association %q", assoc)
	}
	return lt, nil
}

func (s *Store) ListLinks(ctx context.Context, assoc store.Association, ownerID uuid.UUID) ([]types.Link, error) {
	lt, err := lookupLinkTable(assoc)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.%[2]s, l.%[3]s, t.name
		FROM %[1]s l
		JOIN %[4]s t ON t.id = l.%[3]s
		WHERE l.%[2]s = $1
		ORDER BY t.name`, lt.table, lt.owner, lt.target, lt.targets)
	rows, err := s.q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []types.Link{}
	for rows.Next() {
		var link types.Link
		if err := rows.Scan(&link.ID, &link.OwnerID, &link.TargetID, &link.TargetName); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *Store) AddLinks(ctx context.Context, assoc store.Association, ownerID uuid.UUID, targetIDs []uuid.UUID) error {
	lt, err := lookupLinkTable(assoc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, %s, %s) VALUES ($1, $2, $3)`, lt.table, lt.owner, lt.target)
	for _, targetID := range targetIDs {
		if _, err := s.q.ExecContext(ctx, query, uuid.New(), ownerID, targetID); err != nil {
			return translate(err)
		}
	}
	return nil
}

func (s *Store) RemoveLinks(ctx context.Context, assoc store.Association, linkIDs []uuid.UUID) error {
	if len(linkIDs) == 0 {
		return nil
	}
	lt, err := lookupLinkTable(assoc)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(linkIDs))
	for _, id := range linkIDs {
		ids = append(ids, id.String())
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1::uuid[])`, lt.table)
	_, err = s.q.ExecContext(ctx, query, pq.Array(ids))
	return err
}
