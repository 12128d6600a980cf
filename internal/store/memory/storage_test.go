package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) createUser(email string) types.User {
	user, err := s.storage.CreateUser(s.ctx, types.User{Email: email, Username: "u"})
	s.Require().NoError(err)
	return user
}

func (s *StorageSuite) createRole(name string) types.Role {
	role, err := s.storage.CreateRole(s.ctx, types.Role{Name: name})
	s.Require().NoError(err)
	return role
}

// User tests

func (s *StorageSuite) TestCreateUserRejectsDuplicateEmail() {
	s.createUser("a@x.io")

	_, err := s.storage.CreateUser(s.ctx, types.User{Email: "a@x.io"})
	s.ErrorIs(err, store.ErrDuplicate)
}

func (s *StorageSuite) TestEmailMatchIsCaseSensitive() {
	s.createUser("a@x.io")

	_, err := s.storage.GetUserByEmail(s.ctx, "A@x.io")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StorageSuite) TestGetUserIncludesRoles() {
	user := s.createUser("a@x.io")
	role := s.createRole("user")
	s.Require().NoError(s.storage.AddLinks(s.ctx, store.UserRoles, user.ID, []uuid.UUID{role.ID}))

	got, err := s.storage.GetUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal([]string{"user"}, got.RoleNames())
}

func (s *StorageSuite) TestDeleteUserDropsLinks() {
	user := s.createUser("a@x.io")
	role := s.createRole("user")
	s.Require().NoError(s.storage.AddLinks(s.ctx, store.UserRoles, user.ID, []uuid.UUID{role.ID}))

	s.Require().NoError(s.storage.DeleteUser(s.ctx, user.ID))

	links, err := s.storage.ListLinks(s.ctx, store.UserRoles, user.ID)
	s.Require().NoError(err)
	s.Empty(links)
	s.ErrorIs(s.storage.DeleteUser(s.ctx, user.ID), store.ErrNotFound)
}

// Link tests

func (s *StorageSuite) TestAddLinksRejectsDuplicatePair() {
	user := s.createUser("a@x.io")
	role := s.createRole("user")
	s.Require().NoError(s.storage.AddLinks(s.ctx, store.UserRoles, user.ID, []uuid.UUID{role.ID}))

	err := s.storage.AddLinks(s.ctx, store.UserRoles, user.ID, []uuid.UUID{role.ID})
	s.ErrorIs(err, store.ErrDuplicate)
}

func (s *StorageSuite) TestAddLinksRequiresExistingTarget() {
	user := s.createUser("a@x.io")

	err := s.storage.AddLinks(s.ctx, store.UserRoles, user.ID, []uuid.UUID{uuid.New()})
	s.ErrorIs(err, store.ErrNotFound)
}

// Transaction tests

func (s *StorageSuite) TestInTxDiscardsWritesOnError() {
	boom := errors.New("boom")

	err := s.storage.InTx(s.ctx, func(tx store.Store) error {
		if _, err := tx.CreateUser(s.ctx, types.User{Email: "a@x.io"}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.storage.GetUserByEmail(s.ctx, "a@x.io")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StorageSuite) TestInTxCommitsOnSuccess() {
	err := s.storage.InTx(s.ctx, func(tx store.Store) error {
		user, err := tx.CreateUser(s.ctx, types.User{Email: "a@x.io"})
		if err != nil {
			return err
		}
		role, err := tx.CreateRole(s.ctx, types.Role{Name: "user"})
		if err != nil {
			return err
		}
		return tx.InTx(s.ctx, func(nested store.Store) error {
			return nested.AddLinks(s.ctx, store.UserRoles, user.ID, []uuid.UUID{role.ID})
		})
	})
	s.Require().NoError(err)

	user, err := s.storage.GetUserByEmail(s.ctx, "a@x.io")
	s.Require().NoError(err)
	s.Equal([]string{"user"}, user.RoleNames())
}

// Game tests

func (s *StorageSuite) TestListGamesFiltersAndOrders() {
	rpg, err := s.storage.CreateGenre(s.ctx, types.Genre{Name: "RPG"})
	s.Require().NoError(err)

	cheap, err := s.storage.CreateGame(s.ctx, types.Game{Name: "Dungeon Crawl", Price: 5, OnSale: true})
	s.Require().NoError(err)
	pricey, err := s.storage.CreateGame(s.ctx, types.Game{Name: "Dungeon Lords", Price: 50, OnSale: true})
	s.Require().NoError(err)
	_, err = s.storage.CreateGame(s.ctx, types.Game{Name: "Racer", Price: 20})
	s.Require().NoError(err)

	s.Require().NoError(s.storage.AddLinks(s.ctx, store.GameGenres, cheap.ID, []uuid.UUID{rpg.ID}))
	s.Require().NoError(s.storage.AddLinks(s.ctx, store.GameGenres, pricey.ID, []uuid.UUID{rpg.ID}))

	onSale := true
	games, err := s.storage.ListGames(s.ctx, types.GameFilter{
		Genre:      "rpg",
		Name:       "DUNGEON",
		OnSale:     &onSale,
		OrderBy:    types.OrderByPrice,
		Descending: true,
	})
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(pricey.ID, games[0].ID)
	s.Equal(cheap.ID, games[1].ID)
	s.Equal([]string{"RPG"}, games[0].GenreNames())
}

func (s *StorageSuite) TestListGamesRejectsUnknownOrder() {
	_, err := s.storage.ListGames(s.ctx, types.GameFilter{OrderBy: "rating"})
	s.Error(err)
}

func (s *StorageSuite) TestCreateMediaOnePerGame() {
	game, err := s.storage.CreateGame(s.ctx, types.Game{Name: "Racer"})
	s.Require().NoError(err)

	_, err = s.storage.CreateMedia(s.ctx, types.GameMedia{GameID: game.ID, FileName: "a.png"})
	s.Require().NoError(err)

	_, err = s.storage.CreateMedia(s.ctx, types.GameMedia{GameID: game.ID, FileName: "b.png"})
	s.ErrorIs(err, store.ErrDuplicate)
}
