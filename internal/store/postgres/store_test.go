package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{
	"id", "email", "username", "password_hash", "password_salt",
	"date_of_birth", "last_login_at", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return New(db), mock
}

func TestDeleteUserReportsNotFound(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteUser(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmailMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserLoadsRoles(t *testing.T) {
	s, mock := newMockStore(t)
	userID := uuid.New()
	roleID := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			userID.String(), "a@x.io", "alice", "digest", "salt", nil, nil, created, created,
		))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_roles l`)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role_id", "name"}).
			AddRow(uuid.NewString(), userID.String(), roleID.String(), "user"))

	user, err := s.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", user.Email)
	assert.Nil(t, user.DateOfBirth)
	assert.Nil(t, user.LastLoginAt)
	assert.Equal(t, []types.Role{{ID: roleID, Name: "user"}}, user.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoleDuplicateName(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO roles (id, name)`)).
		WithArgs(sqlmock.AnyArg(), "user").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "roles_name_key"})

	_, err := s.CreateRole(context.Background(), types.Role{Name: "user"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLinksInsertsOneRowPerTarget(t *testing.T) {
	s, mock := newMockStore(t)
	owner := uuid.New()
	first, second := uuid.New(), uuid.New()

	insert := regexp.QuoteMeta(`INSERT INTO user_roles (id, user_id, role_id) VALUES ($1, $2, $3)`)
	mock.ExpectExec(insert).WithArgs(sqlmock.AnyArg(), owner, first).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WithArgs(sqlmock.AnyArg(), owner, second).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.AddLinks(context.Background(), store.UserRoles, owner, []uuid.UUID{first, second}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLinksSkipsEmptySet(t *testing.T) {
	s, mock := newMockStore(t)

	require.NoError(t, s.RemoveLinks(context.Background(), store.GameGenres, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLinksDeletesByID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM game_genres WHERE id = ANY($1::uuid[])`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, s.RemoveLinks(context.Background(), store.GameGenres, []uuid.UUID{uuid.New(), uuid.New()}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownAssociation(t *testing.T) {
	s, _ := newMockStore(t)

	_, err := s.ListLinks(context.Background(), store.Association("nope"), uuid.New())
	assert.Error(t, err)
}

func TestInTxCommits(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET last_login_at = $1 WHERE id = $2`)).
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.InTx(context.Background(), func(tx store.Store) error {
		return tx.SetLastLogin(context.Background(), id, time.Now())
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	owner := uuid.New()
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO game_genres`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := s.InTx(context.Background(), func(tx store.Store) error {
		if err := tx.AddLinks(context.Background(), store.GameGenres, owner, []uuid.UUID{uuid.New()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGamesAppliesFilterAndOrder(t *testing.T) {
	s, mock := newMockStore(t)
	gameID := uuid.New()
	onSale := true
	released := time.Date(2011, 11, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`lower\(ge\.name\) = lower\(\$1\).*strpos\(lower\(g\.name\), lower\(\$2\)\) > 0.*g\.on_sale = \$3.*ORDER BY g\.price DESC, g\.id`).
		WithArgs("RPG", "scroll", true).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "on_sale", "release_date", "created_at", "updated_at",
		}).AddRow(gameID.String(), "Elder Scrolls", "", 59.99, true, released, released, released))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM game_genres l`)).
		WithArgs(gameID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "genre_id", "name"}))

	games, err := s.ListGames(context.Background(), types.GameFilter{
		Genre:      "RPG",
		Name:       "scroll",
		OnSale:     &onSale,
		OrderBy:    "Price",
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Elder Scrolls", games[0].Name)
	assert.InDelta(t, 59.99, games[0].Price, 0.0001)
	assert.Empty(t, games[0].Genres)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGamesRejectsUnknownOrder(t *testing.T) {
	s, mock := newMockStore(t)

	_, err := s.ListGames(context.Background(), types.GameFilter{OrderBy: "rating"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
