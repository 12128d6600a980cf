package types

import (
	"time"

	"github.com/google/uuid"
)

// Game represents a catalog entry.
// It carries pricing, availability, and genre classification.
type Game struct {
	// ID is the unique identifier of the game.
	ID uuid.UUID `json:"id" db:"id"`

	// Name is the title shown in the catalog.
	Name string `json:"name" db:"name"`

	// Description is free-form text about the game.
	Description string `json:"description" db:"description"`

	// Price is the current list price. Purchases copy this value.
	Price float64 `json:"price" db:"price"`

	// OnSale marks the game as discounted.
	OnSale bool `json:"onSale" db:"on_sale"`

	// ReleaseDate is the calendar date the game was released.
	ReleaseDate time.Time `json:"releaseDate" db:"release_date"`

	// Genres holds the genres linked to the game. Populated on reads.
	Genres []Genre `json:"gameGenres" db:"-"`

	// CreatedAt is the timestamp when the game was added to the catalog.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the game.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// GenreNames returns the names of the genres linked to the game.
func (g Game) GenreNames() []string {
	names := make([]string, 0, len(g.Genres))
	for _, genre := range g.Genres {
		names = append(names, genre.Name)
	}
	return names
}

// GameDetail is the administrative view of a game including sold copies.
type GameDetail struct {
	Game
	Copies []GameCopy `json:"gameUserCopies"`
}

// Genre is a named game classification.
type Genre struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// GameCopy is a purchased copy of a game owned by a user.
type GameCopy struct {
	ID            uuid.UUID `json:"id" db:"id"`
	GameID        uuid.UUID `json:"gameId" db:"game_id"`
	UserID        uuid.UUID `json:"userId" db:"user_id"`
	PurchasePrice float64   `json:"purchasePrice" db:"purchase_price"`
	PurchaseDate  time.Time `json:"purchaseDate" db:"purchase_date"`
}

// GameMedia describes the single media file attached to a game.
// The bytes live in object storage under ObjectKey.
type GameMedia struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GameID      uuid.UUID `json:"gameId" db:"game_id"`
	FileName    string    `json:"fileName" db:"file_name"`
	ContentType string    `json:"contentType" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	ObjectKey   string    `json:"-" db:"object_key"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// GameMediaDetail is a media descriptor with the game it belongs to.
type GameMediaDetail struct {
	GameMedia
	Game Game `json:"game"`
}

// Catalog ordering keys accepted by GameFilter.OrderBy.
const (
	OrderByName       = "name"
	OrderByPrice      = "price"
	OrderByCreateDate = "createdate"
)

// GameFilter narrows and orders a catalog listing. Zero values mean
// "no constraint".
type GameFilter struct {
	// Genre matches games linked to a genre with this name, case-insensitively.
	Genre string

	// Name matches games whose name contains this text, case-insensitively.
	Name string

	// OnSale, when set, matches games with exactly this flag.
	OnSale *bool

	// OrderBy is one of OrderByName, OrderByPrice, OrderByCreateDate or empty.
	OrderBy string

	// Descending reverses the ordering.
	Descending bool
}
