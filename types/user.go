package types

import (
	"time"

	"github.com/google/uuid"
)

// Well-known role names.
const (
	// RoleUser is the default role granted to self-registered accounts.
	RoleUser = "user"

	// RoleAdministrator is the privileged role. It cannot be requested at
	// registration and cannot be removed through a profile update.
	RoleAdministrator = "administrator"
)

// User represents an account in the store.
type User struct {
	// ID is the unique identifier of the user.
	ID uuid.UUID `json:"id" db:"id"`

	// Email is the user's email address. It is unique across accounts and
	// compared with exact, case-sensitive matching.
	Email string `json:"email" db:"email"`

	// Username is the user's display name. It is not required to be unique.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the base64 encoded credential digest.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// PasswordSalt is the per-user salt mixed into the credential digest.
	PasswordSalt string `json:"-" db:"password_salt"`

	// DateOfBirth is optional.
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`

	// LastLoginAt is set on every successful login.
	LastLoginAt *time.Time `json:"lastLoginDate,omitempty" db:"last_login_at"`

	// Roles holds the roles linked to the user. Populated on reads.
	Roles []Role `json:"roles" db:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// RoleNames returns the names of the roles linked to the user.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// UserDetail is the administrative view of a user including owned copies.
type UserDetail struct {
	User
	Copies []GameCopy `json:"gameUserCopies"`
}

// Role is a named authorization role.
type Role struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}
