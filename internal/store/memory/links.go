package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/gamestore-web/apiserver/internal/store"
	"github.com/gamestore-web/apiserver/types"
	"github.com/google/uuid"
)

func (s *Storage) ListLinks(ctx context.Context, assoc store.Association, ownerID uuid.UUID) ([]types.Link, error) {
	defer s.lock()()
	if _, ok := s.st.links[assoc]; !ok {
		return nil, fmt.Errorf("unknown association %q", assoc)
	}
	return s.linksOf(assoc, ownerID), nil
}

func (s *Storage) AddLinks(ctx context.Context, assoc store.Association, ownerID uuid.UUID, targetIDs []uuid.UUID) error {
	defer s.lock()()
	rows, ok := s.st.links[assoc]
	if !ok {
		return fmt.Errorf("unknown association %q", assoc)
	}
	if !s.ownerExists(assoc, ownerID) {
		return store.ErrNotFound
	}

	for _, targetID := range targetIDs {
		if _, ok := s.targetName(assoc, targetID); !ok {
			return store.ErrNotFound
		}
		for _, existing := range rows {
			if existing.OwnerID == ownerID && existing.TargetID == targetID {
				return store.ErrDuplicate
			}
		}
		id := uuid.New()
		rows[id] = types.Link{ID: id, OwnerID: ownerID, TargetID: targetID}
	}
	return nil
}

func (s *Storage) RemoveLinks(ctx context.Context, assoc store.Association, linkIDs []uuid.UUID) error {
	defer s.lock()()
	rows, ok := s.st.links[assoc]
	if !ok {
		return fmt.Errorf("unknown association %q", assoc)
	}
	for _, id := range linkIDs {
		delete(rows, id)
	}
	return nil
}

// linksOf returns the owner's links with target names resolved, ordered by
// name. The caller must hold the lock.
func (s *Storage) linksOf(assoc store.Association, ownerID uuid.UUID) []types.Link {
	links := []types.Link{}
	for _, link := range s.st.links[assoc] {
		if link.OwnerID != ownerID {
			continue
		}
		link.TargetName, _ = s.targetName(assoc, link.TargetID)
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool { return links[i].TargetName < links[j].TargetName })
	return links
}

func (s *Storage) dropLinks(assoc store.Association, match func(types.Link) bool) {
	for id, link := range s.st.links[assoc] {
		if match(link) {
			delete(s.st.links[assoc], id)
		}
	}
}

func (s *Storage) ownerExists(assoc store.Association, ownerID uuid.UUID) bool {
	switch assoc {
	case store.UserRoles:
		_, ok := s.st.users[ownerID]
		return ok
	case store.GameGenres:
		_, ok := s.st.games[ownerID]
		return ok
	}
	return false
}

func (s *Storage) targetName(assoc store.Association, targetID uuid.UUID) (string, bool) {
	switch assoc {
	case store.UserRoles:
		role, ok := s.st.roles[targetID]
		return role.Name, ok
	case store.GameGenres:
		genre, ok := s.st.genres[targetID]
		return genre.Name, ok
	}
	return "", false
}
