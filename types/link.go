package types

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// Link is one row of a many-to-many association, such as a user's role or a
// game's genre. TargetName is the unique name of the linked entity.
type Link struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OwnerID    uuid.UUID `json:"ownerId" db:"owner_id"`
	TargetID   uuid.UUID `json:"targetId" db:"target_id"`
	TargetName string    `json:"targetName" db:"target_name"`
}

// NameList is an optional set of names supplied by a client.
//
// Present distinguishes a field that was omitted (or null), which leaves an
// association untouched, from an explicit empty list, which clears it.
type NameList struct {
	Names   []string
	Present bool
}

// Names builds a present NameList from the given names.
func Names(names ...string) NameList {
	if names == nil {
		names = []string{}
	}
	return NameList{Names: names, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null yields a list
// that is not present.
func (n *NameList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NameList{}
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*n = Names(names...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NameList) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	if n.Names == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.Names)
}
