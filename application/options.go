package application

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/ledger"
	"github.com/felixgeelhaar/iclean/infrastructure/telemetry"
)

// AgentOption configures the agent.
type AgentOption func(*AgentConfig)

// WithEnergyPerRoom sets the energy budget per room.
func WithEnergyPerRoom(e float64) AgentOption {
	return func(c *AgentConfig) {
		c.EnergyPerRoom = e
	}
}

// WithMovingCost sets the energy a move costs.
func WithMovingCost(cost float64) AgentOption {
	return func(c *AgentConfig) {
		c.MovingCost = cost
	}
}

// WithStartLocation sets the room the agent starts in.
func WithStartLocation(index int) AgentOption {
	return func(c *AgentConfig) {
		c.StartLocation = index
	}
}

// WithPolicy sets the decision policy.
func WithPolicy(p agent.Policy) AgentOption {
	return func(c *AgentConfig) {
		c.Policy = p
	}
}

// WithLedger sets the ledger the agent records into.
func WithLedger(l *ledger.Ledger) AgentOption {
	return func(c *AgentConfig) {
		c.Ledger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r telemetry.Recorder) AgentOption {
	return func(c *AgentConfig) {
		c.Metrics = r
	}
}

// WithTracer sets the tracer used for step spans.
func WithTracer(t trace.Tracer) AgentOption {
	return func(c *AgentConfig) {
		c.Tracer = t
	}
}
