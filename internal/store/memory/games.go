package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

func (s *Storage) ListGames(ctx context.Context, filter types.GameFilter) ([]types.Game, error) {
	defer s.lock()()

	var compare func(a, b types.Game) int
	switch strings.ToLower(filter.OrderBy) {
	case types.OrderByName:
		compare = func(a, b types.Game) int { return cmp.Compare(a.Name, b.Name) }
	case types.OrderByPrice:
		compare = func(a, b types.Game) int { return cmp.Compare(a.Price, b.Price) }
	case types.OrderByCreateDate, "":
		compare = func(a, b types.Game) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return nil, fmt.Errorf("unsupported order column %q", filter.OrderBy)
	}

	games := []types.Game{}
	for _, game := range s.st.games {
		game = s.withGenres(game)
		if filter.Name != "" && !strings.Contains(strings.ToLower(game.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.OnSale != nil && game.OnSale != *filter.OnSale {
			continue
		}
		if filter.Genre != "" && !slices.ContainsFunc(game.Genres, func(g types.Genre) bool {
			return strings.EqualFold(g.Name, filter.Genre)
		}) {
			continue
		}
		games = append(games, game)
	}

	slices.SortStableFunc(games, func(a, b types.Game) int {
		c := compare(a, b)
		if filter.Descending {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID.String(), b.ID.String())
		}
		return c
	})
	return games, nil
}

func (s *Storage) GetGame(ctx context.Context, id uuid.UUID) (types.Game, error) {
	defer s.lock()()
	game, ok := s.st.games[id]
	if !ok {
		return types.Game{}, store.ErrNotFound
	}
	return s.withGenres(game), nil
}

func (s *Storage) CreateGame(ctx context.Context, game types.Game) (types.Game, error) {
	defer s.lock()()
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	now := time.Now().UTC()
	game.CreatedAt = now
	game.UpdatedAt = now
	game.Genres = nil
	s.st.games[game.ID] = game

	game.Genres = []types.Genre{}
	return game, nil
}

func (s *Storage) UpdateGame(ctx context.Context, game types.Game) (types.Game, error) {
	defer s.lock()()
	existing, ok := s.st.games[game.ID]
	if !ok {
		return types.Game{}, store.ErrNotFound
	}
	game.CreatedAt = existing.CreatedAt
	game.UpdatedAt = time.Now().UTC()
	stored := game
	stored.Genres = nil
	s.st.games[game.ID] = stored
	return game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.st.games[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.st.games, id)
	s.dropLinks(store.GameGenres, func(l types.Link) bool { return l.OwnerID == id })
	for copyID, c := range s.st.copies {
		if c.GameID == id {
			delete(s.st.copies, copyID)
		}
	}
	for mediaID, m := range s.st.media {
		if m.GameID == id {
			delete(s.st.media, mediaID)
		}
	}
	return nil
}

func (s *Storage) withGenres(game types.Game) types.Game {
	links := s.linksOf(store.GameGenres, game.ID)
	game.Genres = make([]types.Genre, 0, len(links))
	for _, link := range links {
		game.Genres = append(game.Genres, types.Genre{ID: link.TargetID, Name: link.TargetName})
	}
	return game
}
