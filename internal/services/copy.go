package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// CopyService handles game purchases.
type CopyService struct {
	store  store.Store
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewCopyService(st store.Store, events EventPublisher, logger *slog.Logger) *CopyService {
	return &CopyService{
		store:  st,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Purchase records a copy of gameID owned by userID at the game's current
// price.
func (s *CopyService) Purchase(ctx context.Context, userID, gameID uuid.UUID) (types.GameCopy, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return types.GameCopy{}, err
	}
	c, err := s.store.CreateCopy(ctx, types.GameCopy{
		GameID:        game.ID,
		UserID:        userID,
		PurchasePrice: game.Price,
		PurchaseDate:  s.now(),
	})
	if err != nil {
		return types.GameCopy{}, err
	}

	s.logger.Info("copy purchased", "copy_id", c.ID, "game_id", game.ID, "user_id", userID)
	publishEvent(ctx, s.events, s.logger, EventCopyPurchased, map[string]any{
		"copyId":        c.ID,
		"gameId":        c.GameID,
		"userId":        c.UserID,
		"purchasePrice": c.PurchasePrice,
	})
	return c, nil
}

// Delete removes a copy. Callers other than the owner need the
// administrator role.
func (s *CopyService) Delete(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	c, err := s.store.GetCopy(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != callerID && !isAdmin {
		return oops.Code("COPY_NOT_OWNED").
			With("copy_id", c.ID.String(), "caller_id", callerID.String()).
			Wrapf(ErrForbidden, "copy %s belongs to another user", c.ID)
	}
	return s.store.DeleteCopy(ctx, id)
}

func (s *CopyService) ListByUser(ctx context.Context, userID uuid.UUID) ([]types.GameCopy, error) {
	return s.store.ListCopiesByUser(ctx, userID)
}
