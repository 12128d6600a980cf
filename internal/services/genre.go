package services

import (
	"context"
	"errors"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

// GenreService manages the genre catalog.
type GenreService struct {
	store store.Store
}

func NewGenreService(st store.Store) *GenreService {
	return &GenreService{store: st}
}

func (s *GenreService) List(ctx context.Context) ([]types.Genre, error) {
	return s.store.ListGenres(ctx)
}

func (s *GenreService) Get(ctx context.Context, id uuid.UUID) (types.Genre, error) {
	return s.store.GetGenre(ctx, id)
}

func (s *GenreService) GetByName(ctx context.Context, name string) (types.Genre, error) {
	return s.store.GetGenreByName(ctx, name)
}

func (s *GenreService) Create(ctx context.Context, name string) (types.Genre, error) {
	if name == "" {
		return types.Genre{}, validationf("GENRE_NAME_REQUIRED", "genre name is required")
	}
	genre, err := s.store.CreateGenre(ctx, types.Genre{Name: name})
	if errors.Is(err, store.ErrDuplicate) {
		return types.Genre{}, asConflict("GENRE_NAME_TAKEN", err)
	}
	return genre, err
}

func (s *GenreService) Update(ctx context.Context, id uuid.UUID, name string) (types.Genre, error) {
	if name == "" {
		return types.Genre{}, validationf("GENRE_NAME_REQUIRED", "genre name is required")
	}
	genre, err := s.store.UpdateGenre(ctx, types.Genre{ID: id, Name: name})
	if errors.Is(err, store.ErrDuplicate) {
		return types.Genre{}, asConflict("GENRE_NAME_TAKEN", err)
	}
	return genre, err
}

// Delete removes a genre and unlinks it from every game.
func (s *GenreService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteGenre(ctx, id)
}

func (s *GenreService) DeleteByName(ctx context.Context, name string) error {
	genre, err := s.store.GetGenreByName(ctx, name)
	if err != nil {
		return err
	}
	return s.store.DeleteGenre(ctx, genre.ID)
}
