package environment

// Environment is the row of rooms as seen by the agent.
//
// Only the agent's act step and the driver's end-of-step re-dirtying mutate
// it, and the driver serializes the two.
type Environment interface {
	// RoomCount is constant for the lifetime of the environment.
	RoomCount() int

	// RoomExists reports whether index addresses a room in the row.
	RoomExists(index int) bool

	// IsRoomClean reports whether the room is clean.
	IsRoomClean(index int) (bool, error)

	// DirtinessLevel returns the room's current tier (Clean when clean).
	DirtinessLevel(index int) (DirtinessLevel, error)

	// SuckRoom marks the room clean. Cleaning a clean room is a no-op.
	SuckRoom(index int) error

	// RoomsStatus returns a snapshot of every room.
	RoomsStatus() Status

	// AllRoomsClean reports whether every room is clean.
	AllRoomsClean() bool

	// RedirtyCleanRooms randomly dirties some of the clean rooms and
	// returns the indices it dirtied.
	RedirtyCleanRooms() []int

	// StatusLog renders the rooms for reporting.
	StatusLog() string
}
