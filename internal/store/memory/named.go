package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

func (s *Storage) ListRoles(ctx context.Context) ([]types.Role, error) {
	defer s.lock()()
	return sortedByName(s.st.roles, func(r types.Role) string { return r.Name }), nil
}

func (s *Storage) GetRole(ctx context.Context, id uuid.UUID) (types.Role, error) {
	defer s.lock()()
	role, ok := s.st.roles[id]
	if !ok {
		return types.Role{}, store.ErrNotFound
	}
	return role, nil
}

func (s *Storage) GetRoleByName(ctx context.Context, name string) (types.Role, error) {
	defer s.lock()()
	for _, role := range s.st.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return types.Role{}, store.ErrNotFound
}

func (s *Storage) GetRolesByNames(ctx context.Context, names []string) ([]types.Role, error) {
	defer s.lock()()
	found := []types.Role{}
	for _, role := range sortedByName(s.st.roles, func(r types.Role) string { return r.Name }) {
		if slices.Contains(names, role.Name) {
			found = append(found, role)
		}
	}
	return found, nil
}

func (s *Storage) CreateRole(ctx context.Context, role types.Role) (types.Role, error) {
	defer s.lock()()
	if nameTaken(s.st.roles, role.Name, uuid.Nil, func(r types.Role) string { return r.Name }) {
		return types.Role{}, store.ErrDuplicate
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	s.st.roles[role.ID] = role
	return role, nil
}

func (s *Storage) UpdateRole(ctx context.Context, role types.Role) (types.Role, error) {
	defer s.lock()()
	if _, ok := s.st.roles[role.ID]; !ok {
		return types.Role{}, store.ErrNotFound
	}
	if nameTaken(s.st.roles, role.Name, role.ID, func(r types.Role) string { return r.Name }) {
		return types.Role{}, store.ErrDuplicate
	}
	s.st.roles[role.ID] = role
	return role, nil
}

func (s *Storage) DeleteRole(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.st.roles[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.st.roles, id)
	s.dropLinks(store.UserRoles, func(l types.Link) bool { return l.TargetID == id })
	return nil
}

func (s *Storage) ListGenres(ctx context.Context) ([]types.Genre, error) {
	defer s.lock()()
	return sortedByName(s.st.genres, func(g types.Genre) string { return g.Name }), nil
}

func (s *Storage) GetGenre(ctx context.Context, id uuid.UUID) (types.Genre, error) {
	defer s.lock()()
	genre, ok := s.st.genres[id]
	if !ok {
		return types.Genre{}, store.ErrNotFound
	}
	return genre, nil
}

func (s *Storage) GetGenreByName(ctx context.Context, name string) (types.Genre, error) {
	defer s.lock()()
	for _, genre := range s.st.genres {
		if genre.Name == name {
			return genre, nil
		}
	}
	return types.Genre{}, store.ErrNotFound
}

func (s *Storage) GetGenresByNames(ctx context.Context, names []string) ([]types.Genre, error) {
	defer s.lock()()
	found := []types.Genre{}
	for _, genre := range sortedByName(s.st.genres, func(g types.Genre) string { return g.Name }) {
		if slices.Contains(names, genre.Name) {
			found = append(found, genre)
		}
	}
	return found, nil
}

func (s *Storage) CreateGenre(ctx context.Context, genre types.Genre) (types.Genre, error) {
	defer s.lock()()
	if nameTaken(s.st.genres, genre.Name, uuid.Nil, func(g types.Genre) string { return g.Name }) {
		return types.Genre{}, store.ErrDuplicate
	}
	if genre.ID == uuid.Nil {
		genre.ID = uuid.New()
	}
	s.st.genres[genre.ID] = genre
	return genre, nil
}

func (s *Storage) UpdateGenre(ctx context.Context, genre types.Genre) (types.Genre, error) {
	defer s.lock()()
	if _, ok := s.st.genres[genre.ID]; !ok {
		return types.Genre{}, store.ErrNotFound
	}
	if nameTaken(s.st.genres, genre.Name, genre.ID, func(g types.Genre) string { return g.Name }) {
		return types.Genre{}, store.ErrDuplicate
	}
	s.st.genres[genre.ID] = genre
	return genre, nil
}

func (s *Storage) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()
	if _, ok := s.st.genres[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.st.genres, id)
	s.dropLinks(store.GameGenres, func(l types.Link) bool { return l.TargetID == id })
	return nil
}

func sortedByName[T any](rows map[uuid.UUID]T, name func(T) string) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return name(out[i]) < name(out[j]) })
	return out
}

func nameTaken[T any](rows map[uuid.UUID]T, candidate string, except uuid.UUID, name func(T) string) bool {
	for id, row := range rows {
		if id != except && name(row) == candidate {
			return true
		}
	}
	return false
}
