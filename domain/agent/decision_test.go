package agent

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/iclean/domain/environment"
)

func TestNewSuckDecision(t *testing.T) {
	t.Parallel()

	room := environment.DirtyRoom(2, environment.Medium)
	d := NewSuckDecision(room)

	if d.Type != DecisionSuck {
		t.Errorf("Type = %v, want suck", d.Type)
	}
	if d.Suck == nil {
		t.Fatal("Suck is nil")
	}
	if d.Suck.Room != room {
		t.Errorf("Suck.Room = %v, want %v", d.Suck.Room, room)
	}
	if d.OnRoom != room {
		t.Errorf("OnRoom = %v, want %v", d.OnRoom, room)
	}
	if d.Action() != ActionSuck {
		t.Errorf("Action() = %v, want SUCK", d.Action())
	}

	// Other fields should be nil
	if d.Move != nil {
		t.Error("Move should be nil")
	}
	if d.Shutdown != nil {
		t.Error("Shutdown should be nil")
	}
}

func TestNewMoveDecision(t *testing.T) {
	t.Parallel()

	room := environment.CleanRoom(0)

	right := NewMoveDecision(room, ActionMoveRight)
	if right.Type != DecisionMove {
		t.Errorf("Type = %v, want move", right.Type)
	}
	if right.Move == nil {
		t.Fatal("Move is nil")
	}
	if right.Action() != ActionMoveRight {
		t.Errorf("Action() = %v, want MOVE_RIGHT", right.Action())
	}

	left := NewMoveDecision(room, ActionMoveLeft)
	if left.Action() != ActionMoveLeft {
		t.Errorf("Action() = %v, want MOVE_LEFT", left.Action())
	}
	if left.Suck != nil || left.Shutdown != nil {
		t.Error("only Move should be set")
	}
}

func TestNewShutdownDecision(t *testing.T) {
	t.Parallel()

	d := NewShutdownDecision(environment.CleanRoom(1), "out of energy")

	if d.Type != DecisionShutdown {
		t.Errorf("Type = %v, want shutdown", d.Type)
	}
	if d.Shutdown == nil {
		t.Fatal("Shutdown is nil")
	}
	if d.Shutdown.Reason != "out of energy" {
		t.Errorf("Reason = %v, want 'out of energy'", d.Shutdown.Reason)
	}
	if d.Action() != ActionTurnOff {
		t.Errorf("Action() = %v, want TURN_OFF", d.Action())
	}
	if !d.IsTerminal() {
		t.Error("shutdown decision should be terminal")
	}
}

func TestDecision_ActionMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		decision Decision
	}{
		{"zero value", Decision{}},
		{"suck without payload", Decision{Type: DecisionSuck}},
		{"move without payload", Decision{Type: DecisionMove}},
		{"shutdown without payload", Decision{Type: DecisionShutdown}},
		{"unknown type", Decision{Type: "teleport"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.decision.Action(); got != "" {
				t.Errorf("Action() = %q, want empty", got)
			}
		})
	}
}

func TestDecision_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewMoveDecision(environment.CleanRoom(1), ActionMoveRight))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"type":"move","on_room":{"index":1,"clean":true,"dirtiness":0},"move":{"direction":"MOVE_RIGHT"}}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
