package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

const gameColumns = `g.id, g.name, g.description, g.price, g.on_sale, g.release_date, g.created_at, g.updated_at`

var gameOrderColumns = map[string]string{
	"":                      "g.created_at",
	types.OrderByName:       "g.name",
	types.OrderByPrice:      "g.price",
	types.OrderByCreateDate: "g.created_at",
}

func scanGame(row rowScanner) (types.Game, error) {
	var game types.Game
	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.Description,
		&game.Price,
		&game.OnSale,
		&game.ReleaseDate,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	return game, err
}

func (s *Store) ListGames(ctx context.Context, filter types.GameFilter) ([]types.Game, error) {
	orderColumn, ok := gameOrderColumns[strings.ToLower(filter.OrderBy)]
	if !ok {
		return nil, fmt.Errorf("unsupported order column %q", filter.OrderBy)
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	var (
		conditions []string
		args       []any
	)
	if filter.Genre != "" {
		args = append(args, filter.Genre)
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM game_genres gg
			JOIN genres ge ON ge.id = gg.genre_id
			WHERE gg.game_id = g.id AND lower(ge.name) = lower($%d))`, len(args)))
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		conditions = append(conditions, fmt.Sprintf(`strpos(lower(g.name), lower($%d)) > 0`, len(args)))
	}
	if filter.OnSale != nil {
		args = append(args, *filter.OnSale)
		conditions = append(conditions, fmt.Sprintf(`g.on_sale = $%d`, len(args)))
	}

	query := `SELECT ` + gameColumns + ` FROM games g`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += fmt.Sprintf(` ORDER BY %s %s, g.id`, orderColumn, direction)

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []types.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range games {
		if games[i].Genres, err = s.gameGenres(ctx, games[i].ID); err != nil {
			return nil, err
		}
	}
	return games, nil
}

func (s *Store) GetGame(ctx context.Context, id uuid.UUID) (types.Game, error) {
	game, err := scanGame(s.q.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games g WHERE g.id = $1`, id))
	if err != nil {
		return types.Game{}, translate(err)
	}
	if game.Genres, err = s.gameGenres(ctx, game.ID); err != nil {
		return types.Game{}, err
	}
	return game, nil
}

func (s *Store) CreateGame(ctx context.Context, game types.Game) (types.Game, error) {
	now := time.Now().UTC()
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	game.CreatedAt = now
	game.UpdatedAt = now

	const query = `
		INSERT INTO games (id, name, description, price, on_sale, release_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := s.q.ExecContext(
		ctx,
		query,
		game.ID,
		game.Name,
		game.Description,
		game.Price,
		game.OnSale,
		game.ReleaseDate,
		game.CreatedAt,
		game.UpdatedAt,
	); err != nil {
		return types.Game{}, translate(err)
	}
	game.Genres = []types.Genre{}
	return game, nil
}

func (s *Store) UpdateGame(ctx context.Context, game types.Game) (types.Game, error) {
	game.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE games
		SET name = $1,
			description = $2,
			price = $3,
			on_sale = $4,
			release_date = $5,
			updated_at = $6
		WHERE id = $7`
	result, err := s.q.ExecContext(
		ctx,
		query,
		game.Name,
		game.Description,
		game.Price,
		game.OnSale,
		game.ReleaseDate,
		game.UpdatedAt,
		game.ID,
	)
	if err != nil {
		return types.Game{}, translate(err)
	}
	if err := expectAffected(result); err != nil {
		return types.Game{}, err
	}
	return game, nil
}

func (s *Store) DeleteGame(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (s *Store) gameGenres(ctx context.Context, gameID uuid.UUID) ([]types.Genre, error) {
	links, err := s.ListLinks(ctx, store.GameGenres, gameID)
	if err != nil {
		return nil, err
	}
	genres := make([]types.Genre, 0, len(links))
	for _, link := range links {
		genres = append(genres, types.Genre{ID: link.TargetID, Name: link.TargetName})
	}
	return genres, nil
}
