package services

import (
	"context"

	"github.com/gamestore-web/apiserver/internal/reconcile"
	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/google/uuid"
)

// linkReconciler builds a reconciler that edits assoc rows of ownerID
// through tx. Removals are applied before additions.
func linkReconciler(tx store.Store, assoc store.Association, ownerID uuid.UUID, resolve reconcile.Resolver, guard reconcile.Guard) reconcile.Reconciler {
	return reconcile.Reconciler{
		Resolve: resolve,
		Apply: func(ctx context.Context, add []uuid.UUID, remove []uuid.UUID) error {
			if err := tx.RemoveLinks(ctx, assoc, remove); err != nil {
				return err
			}
			return tx.AddLinks(ctx, assoc, ownerID, add)
		},
		Guard: guard,
	}
}

func roleResolver(tx store.Store) reconcile.Resolver {
	return func(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
		roles, err := tx.GetRolesByNames(ctx, names)
		if err != nil {
			return nil, err
		}
		found := make(map[string]uuid.UUID, len(roles))
		for _, role := range roles {
			found[role.Name] = role.ID
		}
		return found, nil
	}
}

func genreResolver(tx store.Store) reconcile.Resolver {
	return func(ctx context.Context, names []string) (map[string]uuid.UUID, error) {
		genres, err := tx.GetGenresByNames(ctx, names)
		if err != nil {
			return nil, err
		}
		found := make(map[string]uuid.UUID, len(genres))
		for _, genre := range genres {
			found[genre.Name] = genre.ID
		}
		return found, nil
	}
}
