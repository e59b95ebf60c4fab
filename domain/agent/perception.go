package agent

import "github.com/felixgeelhaar/iclean/domain/environment"

// PerceivedState is what the agent sees in one step: the room it stands in
// and a snapshot of the whole row. It is built fresh on every perception.
type PerceivedState struct {
	CurrentRoom environment.RoomState `json:"current_room"`
	Rooms       environment.Status    `json:"rooms"`
}

// NewPerceivedState creates a perceived state holding its own copy of rooms.
func NewPerceivedState(current environment.RoomState, rooms environment.Status) PerceivedState {
	return PerceivedState{
		CurrentRoom: current,
		Rooms:       rooms.Clone(),
	}
}

// RoomsSnapshot returns a copy of the perceived rooms.
func (p PerceivedState) RoomsSnapshot() environment.Status {
	return p.Rooms.Clone()
}

// RoomExists reports whether index addresses a room in the perceived row.
func (p PerceivedState) RoomExists(index int) bool {
	return index >= 0 && index < len(p.Rooms)
}
