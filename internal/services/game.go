package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/reconcile"
	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

// GameInput holds the client supplied fields of a catalog entry. Genres
// that are not present leave an existing game's genres unchanged.
type GameInput struct {
	Name        string
	Description string
	Price       float64
	OnSale      bool
	ReleaseDate time.Time
	Genres      types.NameList
}

// GameService encapsulates catalog use-cases.
type GameService struct {
	store   store.Store
	objects MediaStorage
	logger  *slog.Logger
}

// NewGameService builds the catalog service. objects holds the media bytes
// removed along with a deleted game.
func NewGameService(st store.Store, objects MediaStorage, logger *slog.Logger) *GameService {
	return &GameService{store: st, objects: objects, logger: logger}
}

// List returns the catalog narrowed and ordered by filter.
func (s *GameService) List(ctx context.Context, filter types.GameFilter) ([]types.Game, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.store.ListGames(ctx, filter)
}

func (s *GameService) Get(ctx context.Context, id uuid.UUID) (types.Game, error) {
	return s.store.GetGame(ctx, id)
}

// GetDetail returns a game together with every copy sold.
func (s *GameService) GetDetail(ctx context.Context, id uuid.UUID) (types.GameDetail, error) {
	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return types.GameDetail{}, err
	}
	copies, err := s.store.ListCopiesByGame(ctx, id)
	if err != nil {
		return types.GameDetail{}, err
	}
	return types.GameDetail{Game: game, Copies: copies}, nil
}

// ListDetails is List with the copies of every matching game attached.
func (s *GameService) ListDetails(ctx context.Context, filter types.GameFilter) ([]types.GameDetail, error) {
	games, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	details := make([]types.GameDetail, 0, len(games))
	for _, game := range games {
		copies, err := s.store.ListCopiesByGame(ctx, game.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, types.GameDetail{Game: game, Copies: copies})
	}
	return details, nil
}

// Create adds a game and links its genres in one transaction. Unknown
// genre names fail the whole operation.
func (s *GameService) Create(ctx context.Context, in GameInput) (types.Game, error) {
	if err := validateGame(in); err != nil {
		return types.Game{}, err
	}

	var created types.Game
	err := s.store.InTx(ctx, func(tx store.Store) error {
		game, err := tx.CreateGame(ctx, types.Game{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			OnSale:      in.OnSale,
			ReleaseDate: in.ReleaseDate,
		})
		if err != nil {
			return err
		}
		if err := s.reconcileGenres(ctx, tx, game.ID, in.Genres); err != nil {
			return err
		}
		created, err = tx.GetGame(ctx, game.ID)
		return err
	})
	if err != nil {
		return types.Game{}, err
	}
	s.logger.Info("game created", "game_id", created.ID, "genres", created.GenreNames())
	return created, nil
}

// Update replaces the scalar fields of a game and reconciles its genres in
// one transaction.
func (s *GameService) Update(ctx context.Context, id uuid.UUID, in GameInput) (types.Game, error) {
	if err := validateGame(in); err != nil {
		return types.Game{}, err
	}

	var updated types.Game
	err := s.store.InTx(ctx, func(tx store.Store) error {
		game, err := tx.GetGame(ctx, id)
		if err != nil {
			return err
		}
		game.Name = in.Name
		game.Description = in.Description
		game.Price = in.Price
		game.OnSale = in.OnSale
		game.ReleaseDate = in.ReleaseDate
		if _, err := tx.UpdateGame(ctx, game); err != nil {
			return err
		}
		if err := s.reconcileGenres(ctx, tx, id, in.Genres); err != nil {
			return err
		}
		updated, err = tx.GetGame(ctx, id)
		return err
	})
	if err != nil {
		return types.Game{}, err
	}
	return updated, nil
}

// Delete removes a game with its genre links, copies and media record,
// then the stored media bytes.
func (s *GameService) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.store.GetMediaByGame(ctx, id)
	hasMedia := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err := s.store.DeleteGame(ctx, id); err != nil {
		return err
	}
	if hasMedia && s.objects != nil {
		if err := s.objects.Delete(ctx, media.ObjectKey); err != nil {
			logging.LogError(s.logger, "remove media object failed", err)
		}
	}
	return nil
}

func (s *GameService) reconcileGenres(ctx context.Context, tx store.Store, gameID uuid.UUID, desired types.NameList) error {
	current, err := tx.ListLinks(ctx, store.GameGenres, gameID)
	if err != nil {
		return err
	}
	r := linkReconciler(tx, store.GameGenres, gameID, genreResolver(tx), nil)
	res, err := r.Reconcile(ctx, current, desired)
	if err != nil {
		if errors.Is(err, reconcile.ErrUnknownName) {
			return asNotFound("GAME_UNKNOWN_GENRE", err)
		}
		return err
	}
	if res.Added > 0 || res.Removed > 0 {
		s.logger.Debug("game genres changed", "game_id", gameID, "genres", res.Names)
	}
	return nil
}

func normalizeFilter(filter types.GameFilter) (types.GameFilter, error) {
	switch strings.ToLower(filter.OrderBy) {
	case "", types.OrderByName, types.OrderByPrice, types.OrderByCreateDate:
		filter.OrderBy = strings.ToLower(filter.OrderBy)
		return filter, nil
	default:
		return filter, validationf("GAME_INVALID_ORDER", "orderBy must be one of %s, %s, %s",
			types.OrderByName, types.OrderByPrice, types.OrderByCreateDate)
	}
}

func validateGame(in GameInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("GAME_NAME_REQUIRED", "game name is required")
	}
	if in.Price < 0 {
		return validationf("GAME_NEGATIVE_PRICE", "price must not be negative")
	}
	return nil
}
