package environment

import "errors"

// Domain errors for environment queries and mutations.
var (
	// ErrRoomNotFound indicates the room index is outside the row.
	ErrRoomNotFound = errors.New("room does not exist")

	// ErrInvalidDirtiness indicates an unknown dirtiness tier.
	ErrInvalidDirtiness = errors.New("invalid dirtiness level")

	// ErrInconsistentRoom indicates a clean room carrying a dirty level, or the reverse.
	ErrInconsistentRoom = errors.New("inconsistent room state")
)
