package postgres

import (
	"context"

	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

const genresTable = "genres"

func (s *Store) ListGenres(ctx context.Context) ([]types.Genre, error) {
	items, err := s.listNamed(ctx, genresTable)
	if err != nil {
		return nil, err
	}
	return toGenres(items), nil
}

func (s *Store) GetGenre(ctx context.Context, id uuid.UUID) (types.Genre, error) {
	n, err := s.getNamed(ctx, genresTable, id)
	if err != nil {
		return types.Genre{}, err
	}
	return types.Genre(n), nil
}

func (s *Store) GetGenreByName(ctx context.Context, name string) (types.Genre, error) {
	n, err := s.getNamedByName(ctx, genresTable, name)
	if err != nil {
		return types.Genre{}, err
	}
	return types.Genre(n), nil
}

func (s *Store) GetGenresByNames(ctx context.Context, names []string) ([]types.Genre, error) {
	items, err := s.getNamedByNames(ctx, genresTable, names)
	if err != nil {
		return nil, err
	}
	return toGenres(items), nil
}

func (s *Store) CreateGenre(ctx context.Context, genre types.Genre) (types.Genre, error) {
	n, err := s.createNamed(ctx, genresTable, named(genre))
	if err != nil {
		return types.Genre{}, err
	}
	return types.Genre(n), nil
}

func (s *Store) UpdateGenre(ctx context.Context, genre types.Genre) (types.Genre, error) {
	n, err := s.updateNamed(ctx, genresTable, named(genre))
	if err != nil {
		return types.Genre{}, err
	}
	return types.Genre(n), nil
}

func (s *Store) DeleteGenre(ctx context.Context, id uuid.UUID) error {
	return s.deleteNamed(ctx, genresTable, id)
}

func toGenres(items []named) []types.Genre {
	genres := make([]types.Genre, 0, len(items))
	for _, n := range items {
		genres = append(genres, types.Genre(n))
	}
	return genres
}
