package agent

import "github.com/felixgeelhaar/iclean/domain/environment"

// DecisionType identifies the kind of decision made by the policy.
type DecisionType string

const (
	DecisionSuck     DecisionType = "suck"     // Clean the room the agent stands in
	DecisionMove     DecisionType = "move"     // Step to a neighbouring room
	DecisionShutdown DecisionType = "shutdown" // Turn off
)

// Decision is the policy's output. Exactly one of Suck, Move or Shutdown is
// set, matching Type. OnRoom is the room the decision was computed against.
type Decision struct {
	Type     DecisionType          `json:"type"`
	OnRoom   environment.RoomState `json:"on_room"`
	Suck     *SuckDecision         `json:"suck,omitempty"`
	Move     *MoveDecision         `json:"move,omitempty"`
	Shutdown *ShutdownDecision     `json:"shutdown,omitempty"`
}

// SuckDecision cleans the given room.
type SuckDecision struct {
	Room environment.RoomState `json:"room"`
}

// MoveDecision moves one room in Direction (ActionMoveLeft or ActionMoveRight).
type MoveDecision struct {
	Direction Action `json:"direction"`
}

// ShutdownDecision turns the agent off.
type ShutdownDecision struct {
	Reason string `json:"reason"`
}

// NewSuckDecision creates a decision to clean room.
func NewSuckDecision(room environment.RoomState) Decision {
	return Decision{
		Type:   DecisionSuck,
		OnRoom: room,
		Suck:   &SuckDecision{Room: room},
	}
}

// NewMoveDecision creates a decision to move from room in direction.
func NewMoveDecision(room environment.RoomState, direction Action) Decision {
	return Decision{
		Type:   DecisionMove,
		OnRoom: room,
		Move:   &MoveDecision{Direction: direction},
	}
}

// NewShutdownDecision creates a decision to turn off while in room.
func NewShutdownDecision(room environment.RoomState, reason string) Decision {
	return Decision{
		Type:     DecisionShutdown,
		OnRoom:   room,
		Shutdown: &ShutdownDecision{Reason: reason},
	}
}

// Action returns the action tag the decision resolves to, or "" when the
// decision is malformed.
func (d Decision) Action() Action {
	switch d.Type {
	case DecisionSuck:
		if d.Suck != nil {
			return ActionSuck
		}
	case DecisionMove:
		if d.Move != nil {
			return d.Move.Direction
		}
	case DecisionShutdown:
		if d.Shutdown != nil {
			return ActionTurnOff
		}
	}
	return ""
}

// IsTerminal returns true if the decision turns the agent off.
func (d Decision) IsTerminal() bool {
	return d.Type == DecisionShutdown
}
