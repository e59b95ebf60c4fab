// Package statemachine provides the statekit integration for the agent's
// running state.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/ledger"
)

// Context carries the running state through the state machine.
type Context struct {
	// State mirrors the machine's current state.
	State agent.RunningState
	// Ledger records transitions; nil disables recording.
	Ledger *ledger.Ledger
	// ShutdownReason is set when the agent turns off.
	ShutdownReason string
	// ShutdownStep is the simulation step of the shutdown.
	ShutdownStep int
}

// NewContext creates a new machine context.
func NewContext(l *ledger.Ledger) *Context {
	return &Context{
		State:  agent.RunningOn,
		Ledger: l,
	}
}

// State IDs as StateID type for statekit.
const (
	stateOn  statekit.StateID = statekit.StateID(agent.RunningOn)
	stateOff statekit.StateID = statekit.StateID(agent.RunningOff)
)

// EventTurnOff is the only event the running-state chart accepts.
const EventTurnOff statekit.EventType = "TURN_OFF"

// NewRunningMachine creates the ON/OFF statechart. OFF is final: once the
// agent is off nothing turns it back on.
func NewRunningMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("running").
		WithInitial(stateOn).
		WithContext(&Context{}).
		WithAction("enterOn", enterOn).
		WithAction("enterOff", enterOff).
		WithAction("recordTransition", recordTransition).
		WithGuard("isRunning", guardIsRunning).
		State(stateOn).
		OnEntry("enterOn").
		On(EventTurnOff).Target(stateOff).Guard("isRunning").Do("recordTransition").
		Done().
		State(stateOff).
		Final().
		OnEntry("enterOff").
		Done().
		Build()
}

// StateFromMachine converts the machine state ID to the domain running state.
func StateFromMachine(stateID statekit.StateID) agent.RunningState {
	return agent.RunningState(stateID)
}
