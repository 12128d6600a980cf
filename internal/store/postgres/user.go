package postgres

import (
	"context"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

const userColumns = `id, email, username, password_hash, password_salt, date_of_birth, last_login_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (types.User, error) {
	var user types.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.PasswordSalt,
		&user.DateOfBirth,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Roles, err = s.userRoles(ctx, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (types.User, error) {
	user, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return types.User{}, translate(err)
	}
	if user.Roles, err = s.userRoles(ctx, user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (types.User, error) {
	user, err := scanUser(s.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return types.User{}, translate(err)
	}
	if user.Roles, err = s.userRoles(ctx, user.ID); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (s *Store) CreateUser(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (id, email, username, password_hash, password_salt, date_of_birth, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := s.q.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.PasswordSalt,
		user.DateOfBirth,
		user.LastLoginAt,
		user.CreatedAt,
		user.UpdatedAt,
	); err != nil {
		return types.User{}, translate(err)
	}
	user.Roles = []types.Role{}
	return user, nil
}

// UpdateUser writes the profile fields. Credentials and login time are not touched.
func (s *Store) UpdateUser(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE users
		SET email = $1,
			username = $2,
			date_of_birth = $3,
			updated_at = $4
		WHERE id = $5`
	result, err := s.q.ExecContext(
		ctx,
		query,
		user.Email,
		user.Username,
		user.DateOfBirth,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return types.User{}, translate(err)
	}
	if err := expectAffected(result); err != nil {
		return types.User{}, err
	}
	return user, nil
}

func (s *Store) SetLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := s.q.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

func (s *Store) userRoles(ctx context.Context, userID uuid.UUID) ([]types.Role, error) {
	links, err := s.ListLinks(ctx, store.UserRoles, userID)
	if err != nil {
		return nil, err
	}
	roles := make([]types.Role, 0, len(links))
	for _, link := range links {
		roles = append(roles, types.Role{ID: link.TargetID, Name: link.TargetName})
	}
	return roles, nil
}
