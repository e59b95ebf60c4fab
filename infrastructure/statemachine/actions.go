package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/iclean/domain/agent"
)

// TransitionPayload carries additional data with a transition event.
type TransitionPayload struct {
	Step   int
	Reason string
}

// In statekit, actions receive a pointer to the context. Since our context is
// *Context, actions receive **Context.

func enterOn(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).State = agent.RunningOn
}

func enterOff(ctx **Context, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).State = agent.RunningOff
}

// recordTransition records ON → OFF in the ledger and keeps the reason.
func recordTransition(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}

	c := *ctx
	payload, _ := event.Payload.(TransitionPayload)
	c.ShutdownReason = payload.Reason
	c.ShutdownStep = payload.Step

	if c.Ledger != nil {
		c.Ledger.RecordTransition(payload.Step, c.State, agent.RunningOff, payload.Reason)
	}
}

// Guards receive the context by value, which for us is *Context.
func guardIsRunning(ctx *Context, _ statekit.Event) bool {
	return ctx != nil && ctx.State == agent.RunningOn
}
