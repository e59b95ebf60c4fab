// Package agent provides the core domain model of the cleaning agent.
package agent

// RunningState is the agent's power condition.
type RunningState string

// Running states. Off is terminal for a simulation.
const (
	RunningOn  RunningState = "ON"
	RunningOff RunningState = "OFF"
)

// IsTerminal returns true if the agent can no longer act.
func (s RunningState) IsTerminal() bool {
	return s == RunningOff
}

// IsValid returns true if the state is a recognized running state.
func (s RunningState) IsValid() bool {
	switch s {
	case RunningOn, RunningOff:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s RunningState) String() string {
	return string(s)
}

// AllRunningStates returns every running state.
func AllRunningStates() []RunningState {
	return []RunningState{RunningOn, RunningOff}
}
