package agent

// Action identifies what the agent did in a step.
type Action string

const (
	ActionSuck      Action = "SUCK"       // Clean the current room
	ActionMoveLeft  Action = "MOVE_LEFT"  // Step one room to the left
	ActionMoveRight Action = "MOVE_RIGHT" // Step one room to the right
	ActionTurnOff   Action = "TURN_OFF"   // Shut down
)

// MovingCost is the energy spent by a single move.
const MovingCost = 1.0

// Delta returns the room-index displacement of a move action, 0 otherwise.
func (a Action) Delta() int {
	switch a {
	case ActionMoveLeft:
		return -1
	case ActionMoveRight:
		return 1
	default:
		return 0
	}
}

// IsMove returns true for the two legal move directions.
func (a Action) IsMove() bool {
	return a.Delta() != 0
}

// IsValid returns true if the action is recognized.
func (a Action) IsValid() bool {
	switch a {
	case ActionSuck, ActionMoveLeft, ActionMoveRight, ActionTurnOff:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}

// AllActions returns every action.
func AllActions() []Action {
	return []Action{ActionSuck, ActionMoveLeft, ActionMoveRight, ActionTurnOff}
}
