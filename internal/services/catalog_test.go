package services

import (
	"context"
	"testing"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/internal/store/memory"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewRoleService(memory.New())

	role, err := svc.Create(ctx, "beta-tester")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "beta-tester")
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	renamed, err := svc.Update(ctx, role.ID, "alpha-tester")
	require.NoError(t, err)
	assert.Equal(t, "alpha-tester", renamed.Name)

	found, err := svc.GetByName(ctx, "alpha-tester")
	require.NoError(t, err)
	assert.Equal(t, role.ID, found.ID)

	require.NoError(t, svc.DeleteByName(ctx, "alpha-tester"))
	assert.ErrorIs(t, svc.Delete(ctx, role.ID), ErrNotFound)

	_, err = svc.Update(ctx, uuid.New(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoleServiceProtectsBuiltinRoles(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, seedRoles(ctx, st, types.RoleUser, types.RoleAdministrator))
	svc := NewRoleService(st)

	admin, err := svc.GetByName(ctx, types.RoleAdministrator)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, admin.ID), ErrConflict)
	assert.ErrorIs(t, svc.DeleteByName(ctx, types.RoleUser), ErrConflict)

	_, err = svc.Update(ctx, admin.ID, "root")
	assert.ErrorIs(t, err, ErrConflict)

	roles, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestRoleServiceRejectsEmptyName(t *testing.T) {
	_, err := NewRoleService(memory.New()).Create(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenreServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	svc := NewGenreService(st)

	genre, err := svc.Create(ctx, "Puzzle")
	require.NoError(t, err)
	other, err := svc.Create(ctx, "Action")
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, "Puzzle")
	assert.ErrorIs(t, err, ErrConflict)

	game, err := st.CreateGame(ctx, types.Game{Name: "Tetris"})
	require.NoError(t, err)
	require.NoError(t, st.AddLinks(ctx, store.GameGenres, game.ID, []uuid.UUID{genre.ID}))

	require.NoError(t, svc.Delete(ctx, genre.ID))
	game, err = st.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Empty(t, game.Genres)

	assert.ErrorIs(t, svc.DeleteByName(ctx, "Puzzle"), ErrNotFound)

	genres, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Genre{other}, genres)
}
