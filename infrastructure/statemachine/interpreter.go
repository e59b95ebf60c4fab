package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/iclean/domain/agent"
)

// Interpreter wraps the statekit interpreter with running-state helpers.
type Interpreter struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the running-state machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// Start builds the chart, starts it and enters ON.
func Start(ctx *Context) (*Interpreter, error) {
	machine, err := NewRunningMachine()
	if err != nil {
		return nil, fmt.Errorf("build running-state machine: %w", err)
	}
	i := NewInterpreter(machine, ctx)
	i.Start()
	return i, nil
}

// Start initializes the interpreter and enters the initial state.
func (i *Interpreter) Start() {
	i.interp.Start()
	i.ctx.State = StateFromMachine(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// State returns the current running state.
func (i *Interpreter) State() agent.RunningState {
	return StateFromMachine(i.interp.State().Value)
}

// IsOff returns true once the agent has been turned off.
func (i *Interpreter) IsOff() bool {
	return i.interp.Done() || i.interp.Matches(stateOff)
}

// TurnOff moves the agent from ON to OFF, recording reason at step.
func (i *Interpreter) TurnOff(step int, reason string) error {
	if i.IsOff() {
		return agent.ErrAgentOff
	}

	i.interp.Send(statekit.Event{
		Type:    EventTurnOff,
		Payload: TransitionPayload{Step: step, Reason: reason},
	})

	if !i.IsOff() {
		return fmt.Errorf("turn off rejected in state %s", i.State())
	}
	i.ctx.State = agent.RunningOff
	return nil
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}
