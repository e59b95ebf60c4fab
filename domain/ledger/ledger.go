package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/iclean/domain/agent"
)

// Ledger provides an append-only record of everything that happened during
// a simulation.
type Ledger struct {
	simulationID string
	entries      []Entry
	mu           sync.RWMutex
}

// New creates a new ledger for the given simulation.
func New(simulationID string) *Ledger {
	return &Ledger{
		simulationID: simulationID,
		entries:      make([]Entry, 0),
	}
}

// Append adds an entry to the ledger.
func (l *Ledger) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.SimulationID = l.simulationID
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	l.entries = append(l.entries, entry)
}

// Entries returns a copy of all entries.
func (l *Ledger) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// EntriesByType returns entries filtered by type.
func (l *Ledger) EntriesByType(entryType EntryType) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var filtered []Entry
	for _, e := range l.entries {
		if e.Type == entryType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// LastEntry returns the most recent entry, or nil if empty.
func (l *Ledger) LastEntry() *Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return nil
	}
	entry := l.entries[len(l.entries)-1]
	return &entry
}

// Count returns the number of entries.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// SimulationID returns the associated simulation ID.
func (l *Ledger) SimulationID() string {
	return l.simulationID
}

// RecordSimulationStarted records the start of a simulation.
func (l *Ledger) RecordSimulationStarted(details StartedDetails) {
	l.Append(NewEntry(EntrySimulationStarted, l.simulationID, 0, agent.RunningOn, details))
}

// RecordPerceived records what the agent saw at step.
func (l *Ledger) RecordPerceived(step int, state agent.PerceivedState) {
	room := state.CurrentRoom
	l.Append(NewEntry(EntryPerceived, l.simulationID, step, agent.RunningOn, PerceivedDetails{
		Location:  room.Index,
		Clean:     room.Clean,
		Dirtiness: room.Dirtiness,
	}))
}

// RecordDecision records a policy decision.
func (l *Ledger) RecordDecision(step int, decision agent.Decision) {
	details := DecisionDetails{
		DecisionType: string(decision.Type),
		Action:       decision.Action(),
		Room:         decision.OnRoom.Index,
	}
	if decision.Shutdown != nil {
		details.Reason = decision.Shutdown.Reason
	}

	l.Append(NewEntry(EntryDecision, l.simulationID, step, agent.RunningOn, details))
}

// RecordAction records a completed action.
func (l *Ledger) RecordAction(step int, state agent.RunningState, details ActionDetails) {
	l.Append(NewEntry(EntryAction, l.simulationID, step, state, details))
}

// RecordEnergyConsumed records an energy debit.
func (l *Ledger) RecordEnergyConsumed(step int, amount float64, snapshot agent.EnergySnapshot) {
	l.Append(NewEntry(EntryEnergyConsumed, l.simulationID, step, agent.RunningOn, EnergyDetails{
		Amount:    amount,
		Remaining: snapshot.Level,
		Consumed:  snapshot.Consumed,
	}))
}

// RecordTransition records a running state transition.
func (l *Ledger) RecordTransition(step int, from, to agent.RunningState, reason string) {
	l.Append(NewEntry(EntryStateTransition, l.simulationID, step, to, TransitionDetails{
		FromState: from,
		ToState:   to,
		Reason:    reason,
	}))
}

// RecordRedirtied records the rooms the environment dirtied after step.
func (l *Ledger) RecordRedirtied(step int, state agent.RunningState, rooms []int) {
	l.Append(NewEntry(EntryRoomsRedirtied, l.simulationID, step, state, RedirtiedDetails{
		Rooms: rooms,
	}))
}

// RecordSimulationEnded records the normal end of a simulation.
func (l *Ledger) RecordSimulationEnded(steps int, state agent.RunningState, stopReasons []string) {
	l.Append(NewEntry(EntrySimulationEnded, l.simulationID, steps, state, EndedDetails{
		StopReasons: stopReasons,
		Steps:       steps,
	}))
}

// RecordSimulationFailed records a fatal error at step.
func (l *Ledger) RecordSimulationFailed(step int, state agent.RunningState, err error) {
	l.Append(NewEntry(EntrySimulationFailed, l.simulationID, step, state, FailedDetails{
		Error: err.Error(),
	}))
}

// CleanedRooms returns the indices of rooms cleaned, in order.
func (l *Ledger) CleanedRooms() []int {
	var rooms []int
	for _, e := range l.EntriesByType(EntryAction) {
		var d ActionDetails
		if err := e.DecodeDetails(&d); err != nil {
			continue
		}
		if d.Action == agent.ActionSuck {
			rooms = append(rooms, d.FromLocation)
		}
	}
	return rooms
}
