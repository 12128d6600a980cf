package store

import (
	"context"
	"time"

	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

// Association names a many-to-many link table.
type Association string

const (
	// UserRoles links users to roles.
	UserRoles Association = "user_roles"
	// GameGenres links games to genres.
	GameGenres Association = "game_genres"
)

// UserStore persists user accounts. Reads populate User.Roles.
type UserStore interface {
	ListUsers(ctx context.Context) ([]types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (types.User, error)
	GetUserByEmail(ctx context.Context, email string) (types.User, error)
	CreateUser(ctx context.Context, user types.User) (types.User, error)
	UpdateUser(ctx context.Context, user types.User) (types.User, error)
	SetLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// RoleStore persists roles. Role names are unique.
type RoleStore interface {
	ListRoles(ctx context.Context) ([]types.Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (types.Role, error)
	GetRoleByName(ctx context.Context, name string) (types.Role, error)
	// GetRolesByNames returns the roles that exist among names. Missing names
	// are silently skipped; callers compare lengths to detect them.
	GetRolesByNames(ctx context.Context, names []string) ([]types.Role, error)
	CreateRole(ctx context.Context, role types.Role) (types.Role, error)
	UpdateRole(ctx context.Context, role types.Role) (types.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

// GenreStore persists genres. Genre names are unique.
type GenreStore interface {
	ListGenres(ctx context.Context) ([]types.Genre, error)
	GetGenre(ctx context.Context, id uuid.UUID) (types.Genre, error)
	GetGenreByName(ctx context.Context, name string) (types.Genre, error)
	GetGenresByNames(ctx context.Context, names []string) ([]types.Genre, error)
	CreateGenre(ctx context.Context, genre types.Genre) (types.Genre, error)
	UpdateGenre(ctx context.Context, genre types.Genre) (types.Genre, error)
	DeleteGenre(ctx context.Context, id uuid.UUID) error
}

// GameStore persists catalog entries. Reads populate Game.Genres.
type GameStore interface {
	ListGames(ctx context.Context, filter types.GameFilter) ([]types.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (types.Game, error)
	CreateGame(ctx context.Context, game types.Game) (types.Game, error)
	UpdateGame(ctx context.Context, game types.Game) (types.Game, error)
	DeleteGame(ctx context.Context, id uuid.UUID) error
}

// CopyStore persists purchased game copies.
type CopyStore interface {
	GetCopy(ctx context.Context, id uuid.UUID) (types.GameCopy, error)
	ListCopiesByUser(ctx context.Context, userID uuid.UUID) ([]types.GameCopy, error)
	ListCopiesByGame(ctx context.Context, gameID uuid.UUID) ([]types.GameCopy, error)
	CreateCopy(ctx context.Context, copy types.GameCopy) (types.GameCopy, error)
	DeleteCopy(ctx context.Context, id uuid.UUID) error
}

// MediaStore persists game media descriptors. At most one per game.
type MediaStore interface {
	ListMedia(ctx context.Context) ([]types.GameMedia, error)
	GetMedia(ctx context.Context, id uuid.UUID) (types.GameMedia, error)
	GetMediaByGame(ctx context.Context, gameID uuid.UUID) (types.GameMedia, error)
	CreateMedia(ctx context.Context, media types.GameMedia) (types.GameMedia, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// LinkStore reads and edits association rows.
type LinkStore interface {
	// ListLinks returns the links owned by ownerID, ordered by target name.
	ListLinks(ctx context.Context, assoc Association, ownerID uuid.UUID) ([]types.Link, error)
	AddLinks(ctx context.Context, assoc Association, ownerID uuid.UUID, targetIDs []uuid.UUID) error
	RemoveLinks(ctx context.Context, assoc Association, linkIDs []uuid.UUID) error
}

// Store is the full persistence contract used by the services.
type Store interface {
	UserStore
	RoleStore
	GenreStore
	GameStore
	CopyStore
	MediaStore
	LinkStore

	// InTx runs fn against a transactional view of the store. Every write
	// made through tx commits together when fn returns nil and is discarded
	// otherwise. Calling InTx on a transactional view reuses the same
	// transaction.
	InTx(ctx context.Context, fn func(tx Store) error) error
}
