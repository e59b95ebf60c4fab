package environment

import (
	"fmt"
	"strings"
)

// RoomState is an immutable view of a single room.
type RoomState struct {
	Index     int            `json:"index"`
	Clean     bool           `json:"clean"`
	Dirtiness DirtinessLevel `json:"dirtiness"`
}

// NewRoomState builds a room state, enforcing that clean rooms carry the
// Clean level and dirty rooms carry a dirty one.
func NewRoomState(index int, clean bool, level DirtinessLevel) (RoomState, error) {
	if !level.IsValid() {
		return RoomState{}, fmt.Errorf("%w: %d", ErrInvalidDirtiness, int(level))
	}
	if clean != (level == Clean) {
		return RoomState{}, fmt.Errorf("%w: room %d clean=%t level=%s", ErrInconsistentRoom, index, clean, level)
	}
	return RoomState{Index: index, Clean: clean, Dirtiness: level}, nil
}

// CleanRoom returns the state of a clean room at index.
func CleanRoom(index int) RoomState {
	return RoomState{Index: index, Clean: true, Dirtiness: Clean}
}

// DirtyRoom returns the state of a room at index dirtied to level.
func DirtyRoom(index int, level DirtinessLevel) RoomState {
	return RoomState{Index: index, Clean: level == Clean, Dirtiness: level}
}

// String renders the room as "index:LEVEL".
func (r RoomState) String() string {
	return fmt.Sprintf("%d:%s", r.Index, r.Dirtiness)
}

// Status is a snapshot of every room in the row, ordered by index.
type Status []RoomState

// Clone returns an independent copy of the snapshot.
func (s Status) Clone() Status {
	if s == nil {
		return nil
	}
	out := make(Status, len(s))
	copy(out, s)
	return out
}

// AllClean returns true if no room in the snapshot is dirty.
func (s Status) AllClean() bool {
	for _, r := range s {
		if !r.Clean {
			return false
		}
	}
	return true
}

// DirtyCount returns the number of dirty rooms.
func (s Status) DirtyCount() int {
	n := 0
	for _, r := range s {
		if !r.Clean {
			n++
		}
	}
	return n
}

// String renders the snapshot as "[0:CLEAN 1:HIGH ...]".
func (s Status) String() string {
	parts := make([]string, len(s))
	for i, r := range s {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}
