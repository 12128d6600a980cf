// Package memory is an in-memory store.Store used by tests and local runs
// without a database.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

type state struct {
	users  map[uuid.UUID]types.User
	roles  map[uuid.UUID]types.Role
	genres map[uuid.UUID]types.Genre
	games  map[uuid.UUID]types.Game
	copies map[uuid.UUID]types.GameCopy
	media  map[uuid.UUID]types.GameMedia
	links  map[store.Association]map[uuid.UUID]types.Link
}

func newState() *state {
	return &state{
		users:  make(map[uuid.UUID]types.User),
		roles:  make(map[uuid.UUID]types.Role),
		genres: make(map[uuid.UUID]types.Genre),
		games:  make(map[uuid.UUID]types.Game),
		copies: make(map[uuid.UUID]types.GameCopy),
		media:  make(map[uuid.UUID]types.GameMedia),
		links: map[store.Association]map[uuid.UUID]types.Link{
			store.UserRoles:  make(map[uuid.UUID]types.Link),
			store.GameGenres: make(map[uuid.UUID]types.Link),
		},
	}
}

// clone copies every table. Values are stored without their slice
// relations, so a shallow map copy is a full snapshot.
func (st *state) clone() *state {
	next := &state{
		users:  maps.Clone(st.users),
		roles:  maps.Clone(st.roles),
		genres: maps.Clone(st.genres),
		games:  maps.Clone(st.games),
		copies: maps.Clone(st.copies),
		media:  maps.Clone(st.media),
		links:  make(map[store.Association]map[uuid.UUID]types.Link, len(st.links)),
	}
	for assoc, rows := range st.links {
		next.links[assoc] = maps.Clone(rows)
	}
	return next
}

// Storage is an in-memory implementation of store.Store.
type Storage struct {
	mu *sync.Mutex
	st *state
	tx bool
}

// Ensure Storage implements the interface
var _ store.Store = (*Storage)(nil)

// New creates an empty in-memory store.
func New() *Storage {
	return &Storage{mu: &sync.Mutex{}, st: newState()}
}

// lock takes the store mutex unless the caller is a transactional view,
// which already holds it for its whole lifetime.
func (s *Storage) lock() func() {
	if s.tx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// InTx runs fn against a private copy of the state and swaps it in only
// when fn succeeds. Other callers block until the transaction finishes.
func (s *Storage) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.tx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scratch := s.st.clone()
	if err := fn(&Storage{mu: s.mu, st: scratch, tx: true}); err != nil {
		return err
	}
	s.st = scratch
	return nil
}
