package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

func (s *Storage) GetCopy(ctx context.Context, id uuid.UUID) (types.GameCopy, error) {
	defer s.lock()()
	c, ok := s.st.copies[id]
	if !ok {
		return types.GameCopy{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Storage) ListCopiesByUser(ctx context.Context, userID uuid.UUID) ([]types.GameCopy, error) {
	defer s.lock()()
	return s.copiesWhere(func(c types.GameCopy) bool { return c.UserID == userID }), nil
}

func (s *Storage) ListCopiesByGame(ctx context.Context, gameID uuid.UUID) ([]types.GameCopy, error) {
	defer s.lock()()
	return s.copiesWhere(func(c types.GameCopy) bool { return c.GameID == gameID }), nil
}

func (s *Storage) CreateCopy(ctx context.Context, c types.GameCopy) (types.GameCopy, error) {
	defer s.lock()()
	if _, ok := s.st.games[c.GameID]; !ok {
		return types.GameCopy{}, store.ErrNotFound
	}
	if _, ok := s.st.users[c.UserID]; !ok {
		return types.GameCopy{}, store.ErrNotFound
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.PurchaseDate.IsZero() {
		c.PurchaseDate = time.Now().UTC()
	}
	s.st.copies[c.ID] = c
	return c, nil
}

func (s *Storage) DeleteCopy(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.st.copies[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.st.copies, id)
	return nil
}

func (s *Storage) copiesWhere(match func(types.GameCopy) bool) []types.GameCopy {
	out := []types.GameCopy{}
	for _, c := range s.st.copies {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchaseDate.Before(out[j].PurchaseDate) })
	return out
}
