package postgres

import (
	"context"

	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

const rolesTable = "roles"

func (s *Store) ListRoles(ctx context.Context) ([]types.Role, error) {
	items, err := s.listNamed(ctx, rolesTable)
	if err != nil {
		return nil, err
	}
	return toRoles(items), nil
}

func (s *Store) GetRole(ctx context.Context, id uuid.UUID) (types.Role, error) {
	n, err := s.getNamed(ctx, rolesTable, id)
	if err != nil {
		return types.Role{}, err
	}
	return types.Role(n), nil
}

func (s *Store) GetRoleByName(ctx context.Context, name string) (types.Role, error) {
	n, err := s.getNamedByName(ctx, rolesTable, name)
	if err != nil {
		return types.Role{}, err
	}
	return types.Role(n), nil
}

func (s *Store) GetRolesByNames(ctx context.Context, names []string) ([]types.Role, error) {
	items, err := s.getNamedByNames(ctx, rolesTable, names)
	if err != nil {
		return nil, err
	}
	return toRoles(items), nil
}

func (s *Store) CreateRole(ctx context.Context, role types.Role) (types.Role, error) {
	n, err := s.createNamed(ctx, rolesTable, named(role))
	if err != nil {
		return types.Role{}, err
	}
	return types.Role(n), nil
}

func (s *Store) UpdateRole(ctx context.Context, role types.Role) (types.Role, error) {
	n, err := s.updateNamed(ctx, rolesTable, named(role))
	if err != nil {
		return types.Role{}, err
	}
	return types.Role(n), nil
}

func (s *Store) DeleteRole(ctx context.Context, id uuid.UUID) error {
	return s.deleteNamed(ctx, rolesTable, id)
}

func toRoles(items []named) []types.Role {
	roles := make([]types.Role, 0, len(items))
	for _, n := range items {
		roles = append(roles, types.Role(n))
	}
	return roles
}
