package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

func (s *Storage) ListMedia(ctx context.Context) ([]types.GameMedia, error) {
	defer s.lock()()
	items := make([]types.GameMedia, 0, len(s.st.media))
	for _, m := range s.st.media {
		items = append(items, m)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *Storage) GetMedia(ctx context.Context, id uuid.UUID) (types.GameMedia, error) {
	defer s.lock()()
	m, ok := s.st.media[id]
	if !ok {
		return types.GameMedia{}, store.ErrNotFound
	}
	return m, nil
}

func (s *Storage) GetMediaByGame(ctx context.Context, gameID uuid.UUID) (types.GameMedia, error) {
	defer s.lock()()
	for _, m := range s.st.media {
		if m.GameID == gameID {
			return m, nil
		}
	}
	return types.GameMedia{}, store.ErrNotFound
}

func (s *Storage) CreateMedia(ctx context.Context, m types.GameMedia) (types.GameMedia, error) {
	defer s.lock()()
	if _, ok := s.st.games[m.GameID]; !ok {
		return types.GameMedia{}, store.ErrNotFound
	}
	for _, existing := range s.st.media {
		if existing.GameID == m.GameID {
			return types.GameMedia{}, store.ErrDuplicate
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now().UTC()
	s.st.media[m.ID] = m
	return m, nil
}

func (s *Storage) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.st.media[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.st.media, id)
	return nil
}
