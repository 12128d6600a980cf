package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gamestore-web/apiserver/internal/reconcile"
	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

var emailPattern = regexp.MustCompile(`^([\w\.\-]+)@([\w\-]+)((\.(\w){2,3})+)$`)

// CredentialHasher derives and checks stored credential digests.
type CredentialHasher interface {
	GenerateSalt() string
	HashString(plaintext, salt string) string
	VerifyString(plaintext, salt, encoded string) bool
}

// TokenIssuer signs claims tokens for authenticated users.
type TokenIssuer interface {
	Issue(subjectID, name, email string, roles []string) (string, error)
}

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DateOfBirth *time.Time
	Roles       []string
}

// UpdateInput is the payload accepted by UpdateProfile. Roles that are not
// present leave the user's roles unchanged.
type UpdateInput struct {
	Email       string
	Username    string
	DateOfBirth *time.Time
	Roles       types.NameList
}

// LoginResult carries the issued token and the logged in user.
type LoginResult struct {
	Token string
	User  types.User
}

// UserService encapsulates account use-cases.
type UserService struct {
	store  store.Store
	hasher CredentialHasher
	tokens TokenIssuer
	events EventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewUserService(st store.Store, hasher CredentialHasher, tokens TokenIssuer, events EventPublisher, logger *slog.Logger) *UserService {
	return &UserService{
		store:  st,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account holding the requested roles.
//
// The checks run in a fixed order and each failure is a conflict: email
// already registered, no roles requested, the privileged role requested,
// malformed email, unknown role. The user row and its role links are
// written in one transaction.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return types.User{}, conflictf("USER_EMAIL_TAKEN", "user with email %q already exists", in.Email)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	roles := dedupe(in.Roles)
	if len(roles) == 0 {
		return types.User{}, conflictf("USER_NO_ROLES", "at least one role is required")
	}
	if slices.Contains(roles, types.RoleAdministrator) {
		return types.User{}, conflictf("USER_PRIVILEGED_ROLE", "role %q cannot be requested at registration", types.RoleAdministrator)
	}
	if !emailPattern.MatchString(in.Email) {
		return types.User{}, conflictf("USER_INVALID_EMAIL", "email %q is not valid", in.Email)
	}

	var created types.User
	err := s.store.InTx(ctx, func(tx store.Store) error {
		found, err := tx.GetRolesByNames(ctx, roles)
		if err != nil {
			return err
		}
		if missing := missingNames(roles, roleNames(found)); len(missing) > 0 {
			return asConflict("USER_UNKNOWN_ROLE", oops.With("roles", missing).Wrapf(reconcile.ErrUnknownName, "%s", strings.Join(missing, ", ")))
		}

		salt := s.hasher.GenerateSalt()
		user, err := tx.CreateUser(ctx, types.User{
			Email:        in.Email,
			Username:     in.Username,
			PasswordHash: s.hasher.HashString(in.Password, salt),
			PasswordSalt: salt,
			DateOfBirth:  in.DateOfBirth,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return asConflict("USER_EMAIL_TAKEN", err)
			}
			return err
		}

		ids := make([]uuid.UUID, 0, len(found))
		for _, role := range found {
			ids = append(ids, role.ID)
		}
		if err := tx.AddLinks(ctx, store.UserRoles, user.ID, ids); err != nil {
			return err
		}

		created, err = tx.GetUser(ctx, user.ID)
		return err
	})
	if err != nil {
		return types.User{}, err
	}

	s.logger.Info("user registered", "user_id", created.ID, "roles", created.RoleNames())
	publishEvent(ctx, s.events, s.logger, EventUserRegistered, map[string]any{
		"userId": created.ID,
		"email":  created.Email,
		"roles":  created.RoleNames(),
	})
	return created, nil
}

// Login checks credentials, records the login time, and issues a token
// carrying the user's current roles. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("login rejected", "reason", "unknown email")
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.hasher.VerifyString(password, user.PasswordSalt, user.PasswordHash) {
		s.logger.Debug("login rejected", "reason", "password mismatch", "user_id", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.store.SetLastLogin(ctx, user.ID, now); err != nil {
		return LoginResult{}, oops.Code("USER_LOGIN_TOUCH_FAILED").With("user_id", user.ID.String()).Wrap(err)
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user.ID.String(), user.Username, user.Email, user.RoleNames())
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user}, nil
}

// UpdateProfile changes the scalar profile fields and reconciles roles in a
// single transaction. The privileged role can never be removed through this
// path.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateInput) (types.User, error) {
	var updated types.User
	err := s.store.InTx(ctx, func(tx store.Store) error {
		user, err := tx.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if !emailPattern.MatchString(in.Email) {
			return conflictf("USER_INVALID_EMAIL", "email %q is not valid", in.Email)
		}
		if other, err := tx.GetUserByEmail(ctx, in.Email); err == nil && other.ID != id {
			return conflictf("USER_EMAIL_TAKEN", "user with email %q already exists", in.Email)
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}

		user.Email = in.Email
		user.Username = in.Username
		user.DateOfBirth = in.DateOfBirth
		if _, err := tx.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return asConflict("USER_EMAIL_TAKEN", err)
			}
			return err
		}

		current, err := tx.ListLinks(ctx, store.UserRoles, id)
		if err != nil {
			return err
		}
		r := linkReconciler(tx, store.UserRoles, id, roleResolver(tx), reconcile.Protect(types.RoleAdministrator))
		res, err := r.Reconcile(ctx, current, in.Roles)
		if err != nil {
			if errors.Is(err, reconcile.ErrUnknownName) || errors.Is(err, reconcile.ErrProtectedName) {
				return asConflict("USER_ROLES_REJECTED", err)
			}
			return err
		}
		if res.Added > 0 || res.Removed > 0 {
			s.logger.Info("user roles changed", "user_id", id, "roles", res.Names, "added", res.Added, "removed", res.Removed)
		}

		updated, err = tx.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return types.User{}, err
	}
	return updated, nil
}

// Get returns a user with their roles and owned copies.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (types.UserDetail, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return types.UserDetail{}, err
	}
	copies, err := s.store.ListCopiesByUser(ctx, id)
	if err != nil {
		return types.UserDetail{}, err
	}
	return types.UserDetail{User: user, Copies: copies}, nil
}

// List returns every user with roles and owned copies.
func (s *UserService) List(ctx context.Context) ([]types.UserDetail, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]types.UserDetail, 0, len(users))
	for _, user := range users {
		copies, err := s.store.ListCopiesByUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, types.UserDetail{User: user, Copies: copies})
	}
	return details, nil
}

// Delete removes the user, their role links, and their copies.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteUser(ctx, id)
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func missingNames(wanted, found []string) []string {
	var missing []string
	for _, name := range wanted {
		if !slices.Contains(found, name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func roleNames(roles []types.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}
