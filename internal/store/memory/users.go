package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

func (s *Storage) ListUsers(ctx context.Context) ([]types.User, error) {
	defer s.lock()()

	users := make([]types.User, 0, len(s.st.users))
	for _, user := range s.st.users {
		users = append(users, s.withRoles(user))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (s *Storage) GetUser(ctx context.Context, id uuid.UUID) (types.User, error) {
	defer s.lock()()

	user, ok := s.st.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return s.withRoles(user), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (types.User, error) {
	defer s.lock()()

	for _, user := range s.st.users {
		if user.Email == email {
			return s.withRoles(user), nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (s *Storage) CreateUser(ctx context.Context, user types.User) (types.User, error) {
	defer s.lock()()

	if s.emailTaken(user.Email, uuid.Nil) {
		return types.User{}, store.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Roles = nil
	s.st.users[user.ID] = user

	user.Roles = []types.Role{}
	return user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user types.User) (types.User, error) {
	defer s.lock()()

	existing, ok := s.st.users[user.ID]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return types.User{}, store.ErrDuplicate
	}
	existing.Email = user.Email
	existing.Username = user.Username
	existing.DateOfBirth = user.DateOfBirth
	existing.UpdatedAt = time.Now().UTC()
	s.st.users[user.ID] = existing

	user.UpdatedAt = existing.UpdatedAt
	return user, nil
}

func (s *Storage) SetLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	defer s.lock()()

	user, ok := s.st.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.LastLoginAt = &at
	s.st.users[id] = user
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	defer s.lock()()

	if _, ok := s.st.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.st.users, id)
	s.dropLinks(store.UserRoles, func(l types.Link) bool { return l.OwnerID == id })
	for copyID, c := range s.st.copies {
		if c.UserID == id {
			delete(s.st.copies, copyID)
		}
	}
	return nil
}

func (s *Storage) emailTaken(email string, except uuid.UUID) bool {
	for id, user := range s.st.users {
		if id != except && user.Email == email {
			return true
		}
	}
	return false
}

func (s *Storage) withRoles(user types.User) types.User {
	links := s.linksOf(store.UserRoles, user.ID)
	user.Roles = make([]types.Role, 0, len(links))
	for _, link := range links {
		user.Roles = append(user.Roles, types.Role{ID: link.TargetID, Name: link.TargetName})
	}
	return user
}
