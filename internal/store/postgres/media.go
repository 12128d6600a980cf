package postgres

import (
	"context"
	"time"

	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

const mediaColumns = `id, game_id, file_name, content_type, size, object_key, created_at`

func scanMedia(row rowScanner) (types.GameMedia, error) {
	var m types.GameMedia
	err := row.Scan(&m.ID, &m.GameID, &m.FileName, &m.ContentType, &m.Size, &m.ObjectKey, &m.CreatedAt)
	return m, err
}

func (s *Store) ListMedia(ctx context.Context) ([]types.GameMedia, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+mediaColumns+` FROM game_media ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []types.GameMedia{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetMedia(ctx context.Context, id uuid.UUID) (types.GameMedia, error) {
	m, err := scanMedia(s.q.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM game_media WHERE id = $1`, id))
	if err != nil {
		return types.GameMedia{}, translate(err)
	}
	return m, nil
}

func (s *Store) GetMediaByGame(ctx context.Context, gameID uuid.UUID) (types.GameMedia, error) {
	m, err := scanMedia(s.q.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM game_media WHERE game_id = $1`, gameID))
	if err != nil {
		return types.GameMedia{}, translate(err)
	}
	return m, nil
}

func (s *Store) CreateMedia(ctx context.Context, m types.GameMedia) (types.GameMedia, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO game_media (id, game_id, file_name, content_type, size, object_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.q.ExecContext(ctx, query, m.ID, m.GameID, m.FileName, m.ContentType, m.Size, m.ObjectKey, m.CreatedAt); err != nil {
		return types.GameMedia{}, translate(err)
	}
	return m, nil
}

func (s *Store) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM game_media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}
