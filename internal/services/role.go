package services

import (
	"context"
	"errors"
	"slices"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

// builtinRoles cannot be renamed or deleted. Registration and the
// authorization gate depend on them.
var builtinRoles = []string{types.RoleUser, types.RoleAdministrator}

// RoleService manages the role catalog.
type RoleService struct {
	store store.Store
}

func NewRoleService(st store.Store) *RoleService {
	return &RoleService{store: st}
}

func (s *RoleService) List(ctx context.Context) ([]types.Role, error) {
	return s.store.ListRoles(ctx)
}

func (s *RoleService) Get(ctx context.Context, id uuid.UUID) (types.Role, error) {
	return s.store.GetRole(ctx, id)
}

func (s *RoleService) GetByName(ctx context.Context, name string) (types.Role, error) {
	return s.store.GetRoleByName(ctx, name)
}

func (s *RoleService) Create(ctx context.Context, name string) (types.Role, error) {
	if name == "" {
		return types.Role{}, validationf("ROLE_NAME_REQUIRED", "role name is required")
	}
	role, err := s.store.CreateRole(ctx, types.Role{Name: name})
	if errors.Is(err, store.ErrDuplicate) {
		return types.Role{}, asConflict("ROLE_NAME_TAKEN", err)
	}
	return role, err
}

// Update renames a role.
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, name string) (types.Role, error) {
	if name == "" {
		return types.Role{}, validationf("ROLE_NAME_REQUIRED", "role name is required")
	}
	current, err := s.store.GetRole(ctx, id)
	if err != nil {
		return types.Role{}, err
	}
	if current.Name != name && slices.Contains(builtinRoles, current.Name) {
		return types.Role{}, conflictf("ROLE_BUILTIN", "role %q cannot be renamed", current.Name)
	}
	role, err := s.store.UpdateRole(ctx, types.Role{ID: id, Name: name})
	if errors.Is(err, store.ErrDuplicate) {
		return types.Role{}, asConflict("ROLE_NAME_TAKEN", err)
	}
	return role, err
}

// Delete removes a role and unlinks it from every user.
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.store.GetRole(ctx, id)
	if err != nil {
		return err
	}
	return s.delete(ctx, role)
}

func (s *RoleService) DeleteByName(ctx context.Context, name string) error {
	role, err := s.store.GetRoleByName(ctx, name)
	if err != nil {
		return err
	}
	return s.delete(ctx, role)
}

func (s *RoleService) delete(ctx context.Context, role types.Role) error {
	if slices.Contains(builtinRoles, role.Name) {
		return conflictf("ROLE_BUILTIN", "role %q cannot be deleted", role.Name)
	}
	return s.store.DeleteRole(ctx, role.ID)
}
