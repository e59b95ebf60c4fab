// Package simulation provides the domain model of a finished simulation and
// the interface for persisting it.
package simulation

import (
	"time"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
)

// StopReason identifies why a simulation stopped.
type StopReason string

const (
	// StopAgentOff means the agent turned itself off.
	StopAgentOff StopReason = "agent_off"

	// StopAllClean means every room was clean after the agent acted.
	StopAllClean StopReason = "all_clean"

	// StopMaxSteps means the step budget was used up.
	StopMaxSteps StopReason = "max_steps"

	// StopCanceled means the context was canceled between steps.
	StopCanceled StopReason = "canceled"
)

// Message returns the human-readable explanation of the reason.
func (r StopReason) Message() string {
	switch r {
	case StopAgentOff:
		return "The agent runs out of usable energy, and cannot afford any further actions"
	case StopAllClean:
		return "All rooms are clean, and the agent has no meaningful actions left."
	case StopMaxSteps:
		return "The maximum number of steps is reached!"
	case StopCanceled:
		return "The simulation was interrupted."
	default:
		return string(r)
	}
}

// IsValid returns true if the reason is recognized.
func (r StopReason) IsValid() bool {
	switch r {
	case StopAgentOff, StopAllClean, StopMaxSteps, StopCanceled:
		return true
	default:
		return false
	}
}

// Report is the outcome of one simulation.
type Report struct {
	ID              string             `json:"id"`
	Rooms           int                `json:"rooms"`
	MaxSteps        int                `json:"max_steps"`
	Seed            uint64             `json:"seed"`
	StepsExecuted   int                `json:"steps_executed"`
	RoomsCleaned    int                `json:"rooms_cleaned"`
	InitialEnergy   float64            `json:"initial_energy"`
	EnergyConsumed  float64            `json:"energy_consumed"`
	RemainingEnergy float64            `json:"remaining_energy"`
	InitialStatus   environment.Status `json:"initial_status"`
	FinalStatus     environment.Status `json:"final_status"`
	FinalStatusLog  string             `json:"final_status_log"`
	Actions         []agent.Action     `json:"actions"`
	FinalState      agent.RunningState `json:"final_state"`
	StopReasons     []StopReason       `json:"stop_reasons"`
	StartedAt       time.Time          `json:"started_at"`
	EndedAt         time.Time          `json:"ended_at"`
}

// Duration returns how long the simulation ran.
func (r *Report) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// HasStopReason reports whether reason is among the recorded stop reasons.
func (r *Report) HasStopReason(reason StopReason) bool {
	for _, got := range r.StopReasons {
		if got == reason {
			return true
		}
	}
	return false
}

// StopReasonStrings returns the stop reasons as plain strings.
func (r *Report) StopReasonStrings() []string {
	out := make([]string, len(r.StopReasons))
	for i, reason := range r.StopReasons {
		out[i] = string(reason)
	}
	return out
}

// Validate checks the report can be persisted.
func (r *Report) Validate() error {
	if r.ID == "" {
		return ErrInvalidReportID
	}
	return nil
}
