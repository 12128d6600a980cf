package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write would violate a uniqueness constraint,
// such as a second account with the same email or a second role with the same name.
var ErrDuplicate = errors.New("duplicate record")
