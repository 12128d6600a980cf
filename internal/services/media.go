package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gamestore-web/apiserver/internal/logging"
	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// MediaStorage holds media bytes outside the database.
type MediaStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MediaUpload is a single file submitted for a game.
type MediaUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MediaService manages the media file attached to each game.
type MediaService struct {
	store   store.Store
	objects MediaStorage
	events  EventPublisher
	logger  *slog.Logger
}

func NewMediaService(st store.Store, objects MediaStorage, events EventPublisher, logger *slog.Logger) *MediaService {
	return &MediaService{store: st, objects: objects, events: events, logger: logger}
}

// Upload stores the file bytes and records the descriptor. A game holds at
// most one media file.
func (s *MediaService) Upload(ctx context.Context, gameID uuid.UUID, file MediaUpload) (types.GameMedia, error) {
	if file.Body == nil || file.Size <= 0 {
		return types.GameMedia{}, validationf("MEDIA_EMPTY", "a non-empty file is required")
	}
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		return types.GameMedia{}, err
	}
	if _, err := s.store.GetMediaByGame(ctx, gameID); err == nil {
		return types.GameMedia{}, conflictf("MEDIA_EXISTS", "game %s already has a media file", gameID)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.GameMedia{}, err
	}

	contentType := file.ContentType
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}
	key := path.Join("games", gameID.String(), uuid.NewString())
	if err := s.objects.Put(ctx, key, file.Body, file.Size, contentType); err != nil {
		return types.GameMedia{}, oops.Code("MEDIA_PUT_FAILED").With("key", key).Wrap(err)
	}

	media, err := s.store.CreateMedia(ctx, types.GameMedia{
		GameID:      gameID,
		FileName:    path.Base(file.FileName),
		ContentType: contentType,
		Size:        file.Size,
		ObjectKey:   key,
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			logging.LogError(s.logger, "remove orphaned media object failed", delErr)
		}
		if errors.Is(err, store.ErrDuplicate) {
			return types.GameMedia{}, asConflict("MEDIA_EXISTS", err)
		}
		return types.GameMedia{}, err
	}

	s.logger.Info("media uploaded", "media_id", media.ID, "game_id", gameID, "size", media.Size)
	publishEvent(ctx, s.events, s.logger, EventMediaUploaded, map[string]any{
		"mediaId":  media.ID,
		"gameId":   media.GameID,
		"fileName": media.FileName,
	})
	return media, nil
}

func (s *MediaService) Get(ctx context.Context, id uuid.UUID) (types.GameMedia, error) {
	return s.store.GetMedia(ctx, id)
}

func (s *MediaService) GetByGame(ctx context.Context, gameID uuid.UUID) (types.GameMedia, error) {
	return s.store.GetMediaByGame(ctx, gameID)
}

func (s *MediaService) List(ctx context.Context) ([]types.GameMedia, error) {
	return s.store.ListMedia(ctx)
}

// ListDetails returns every descriptor together with its game.
func (s *MediaService) ListDetails(ctx context.Context) ([]types.GameMediaDetail, error) {
	items, err := s.store.ListMedia(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]types.GameMediaDetail, 0, len(items))
	for _, item := range items {
		game, err := s.store.GetGame(ctx, item.GameID)
		if err != nil {
			return nil, err
		}
		details = append(details, types.GameMediaDetail{GameMedia: item, Game: game})
	}
	return details, nil
}

// Open returns the descriptor and a reader over the stored bytes. The
// caller closes the reader.
func (s *MediaService) Open(ctx context.Context, id uuid.UUID) (types.GameMedia, io.ReadCloser, error) {
	media, err := s.store.GetMedia(ctx, id)
	if err != nil {
		return types.GameMedia{}, nil, err
	}
	body, err := s.objects.Get(ctx, media.ObjectKey)
	if err != nil {
		return types.GameMedia{}, nil, oops.Code("MEDIA_GET_FAILED").With("key", media.ObjectKey).Wrap(err)
	}
	return media, body, nil
}

// Delete removes the descriptor and then the stored bytes.
func (s *MediaService) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.store.GetMedia(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMedia(ctx, id); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, media.ObjectKey); err != nil {
		logging.LogError(s.logger, "remove media object failed", err)
	}
	return nil
}
