package agent

import "testing"

func TestRunningState_IsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    RunningState
		expected bool
	}{
		{RunningOn, false},
		{RunningOff, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			t.Parallel()

			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRunningState_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range AllRunningStates() {
		if !s.IsValid() {
			t.Errorf("%s.IsValid() = false, want true", s)
		}
	}

	if RunningState("STANDBY").IsValid() {
		t.Error("unknown state should not be valid")
	}
}

func TestRunningState_String(t *testing.T) {
	t.Parallel()

	if RunningOn.String() != "ON" {
		t.Errorf("String() = %s, want ON", RunningOn.String())
	}
	if RunningOff.String() != "OFF" {
		t.Errorf("String() = %s, want OFF", RunningOff.String())
	}
}
