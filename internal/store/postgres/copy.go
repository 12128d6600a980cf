package postgres

import (
	"context"
	"time"

	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

const copyColumns = `id, game_id, user_id, purchase_price, purchase_date`

func scanCopy(row rowScanner) (types.GameCopy, error) {
	var c types.GameCopy
	err := row.Scan(&c.ID, &c.GameID, &c.UserID, &c.PurchasePrice, &c.PurchaseDate)
	return c, err
}

func (s *Store) GetCopy(ctx context.Context, id uuid.UUID) (types.GameCopy, error) {
	c, err := scanCopy(s.q.QueryRowContext(ctx, `SELECT `+copyColumns+` FROM game_copies WHERE id = $1`, id))
	if err != nil {
		return types.GameCopy{}, translate(err)
	}
	return c, nil
}

func (s *Store) ListCopiesByUser(ctx context.Context, userID uuid.UUID) ([]types.GameCopy, error) {
	return s.listCopies(ctx, `SELECT `+copyColumns+` FROM game_copies WHERE user_id = $1 ORDER BY purchase_date, id`, userID)
}

func (s *Store) ListCopiesByGame(ctx context.Context, gameID uuid.UUID) ([]types.GameCopy, error) {
	return s.listCopies(ctx, `SELECT `+copyColumns+` FROM game_copies WHERE game_id = $1 ORDER BY purchase_date, id`, gameID)
}

func (s *Store) CreateCopy(ctx context.Context, c types.GameCopy) (types.GameCopy, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.PurchaseDate.IsZero() {
		c.PurchaseDate = time.Now().UTC()
	}

	const query = `
		INSERT INTO game_copies (id, game_id, user_id, purchase_price, purchase_date)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.q.ExecContext(ctx, query, c.ID, c.GameID, c.UserID, c.PurchasePrice, c.PurchaseDate); err != nil {
		return types.GameCopy{}, translate(err)
	}
	return c, nil
}

func (s *Store) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM game_copies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (s *Store) listCopies(ctx context.Context, query string, arg uuid.UUID) ([]types.GameCopy, error) {
	rows, err := s.q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	copies := []types.GameCopy{}
	for rows.Next() {
		c, err := scanCopy(rows)
		if err != nil {
			return nil, err
		}
		copies = append(copies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return copies, nil
}
