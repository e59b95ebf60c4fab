// Package ledger provides the append-only audit trail of a simulation.
package ledger

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
)

// EntryType classifies the type of ledger entry.
type EntryType string

const (
	EntrySimulationStarted EntryType = "simulation_started"
	EntryPerceived         EntryType = "perceived"
	EntryDecision          EntryType = "decision"
	EntryAction            EntryType = "action"
	EntryEnergyConsumed    EntryType = "energy_consumed"
	EntryStateTransition   EntryType = "state_transition"
	EntryRoomsRedirtied    EntryType = "rooms_redirtied"
	EntrySimulationEnded   EntryType = "simulation_ended"
	EntrySimulationFailed  EntryType = "simulation_failed"
)

// Entry represents a single record in the ledger.
type Entry struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Step         int                `json:"step"`
	Type         EntryType          `json:"type"`
	SimulationID string             `json:"simulation_id"`
	State        agent.RunningState `json:"state,omitempty"`
	Details      json.RawMessage    `json:"details,omitempty"`
}

// StartedDetails contains details for simulation started entries.
type StartedDetails struct {
	Rooms         int     `json:"rooms"`
	MaxSteps      int     `json:"max_steps"`
	InitialEnergy float64 `json:"initial_energy"`
	Location      int     `json:"location"`
	RoomsStatus   string  `json:"rooms_status"`
}

// PerceivedDetails contains details for perception entries.
type PerceivedDetails struct {
	Location  int                        `json:"location"`
	Clean     bool                       `json:"clean"`
	Dirtiness environment.DirtinessLevel `json:"dirtiness"`
}

// DecisionDetails contains details for decision entries.
type DecisionDetails struct {
	DecisionType string       `json:"decision_type"`
	Action       agent.Action `json:"action"`
	Room         int          `json:"room"`
	Reason       string       `json:"reason,omitempty"`
}

// ActionDetails contains details for completed action entries.
type ActionDetails struct {
	Action       agent.Action `json:"action"`
	FromLocation int          `json:"from_location"`
	ToLocation   int          `json:"to_location"`
	RoomsCleaned int          `json:"rooms_cleaned"`
}

// EnergyDetails contains details for energy consumption entries.
type EnergyDetails struct {
	Amount    float64 `json:"amount"`
	Remaining float64 `json:"remaining"`
	Consumed  float64 `json:"consumed"`
}

// TransitionDetails contains details for state transition entries.
type TransitionDetails struct {
	FromState agent.RunningState `json:"from_state"`
	ToState   agent.RunningState `json:"to_state"`
	Reason    string             `json:"reason,omitempty"`
}

// RedirtiedDetails contains details for re-dirtying entries.
type RedirtiedDetails struct {
	Rooms []int `json:"rooms"`
}

// EndedDetails contains details for simulation ended entries.
type EndedDetails struct {
	StopReasons []string `json:"stop_reasons"`
	Steps       int      `json:"steps"`
}

// FailedDetails contains details for simulation failed entries.
type FailedDetails struct {
	Error string `json:"error"`
}

// NewEntry creates a new ledger entry.
func NewEntry(entryType EntryType, simulationID string, step int, state agent.RunningState, details any) Entry {
	var detailsJSON json.RawMessage
	if details != nil {
		detailsJSON, _ = json.Marshal(details)
	}

	return Entry{
		ID:           uuid.NewString(),
		Timestamp:    time.Now(),
		Step:         step,
		Type:         entryType,
		SimulationID: simulationID,
		State:        state,
		Details:      detailsJSON,
	}
}

// DecodeDetails unmarshals the entry details into the given struct.
func (e Entry) DecodeDetails(v any) error {
	if e.Details == nil {
		return nil
	}
	return json.Unmarshal(e.Details, v)
}
