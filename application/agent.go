// Package application runs the cleaning agent and the simulations around it.
package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/config"
	"github.com/felixgeelhaar/iclean/domain/environment"
	"github.com/felixgeelhaar/iclean/domain/ledger"
	"github.com/felixgeelhaar/iclean/infrastructure/logging"
	"github.com/felixgeelhaar/iclean/infrastructure/observability"
	"github.com/felixgeelhaar/iclean/infrastructure/statemachine"
	"github.com/felixgeelhaar/iclean/infrastructure/telemetry"
)

// Stages reported in wrapped errors and error metrics.
const (
	stagePerceive = "perceive"
	stageAct      = "act"
)

// AgentConfig contains configuration for the agent.
type AgentConfig struct {
	// EnergyPerRoom scales the initial energy by the number of rooms.
	EnergyPerRoom float64
	// MovingCost is the energy one move costs.
	MovingCost float64
	// StartLocation is the room the agent starts in.
	StartLocation int
	// Policy decides what to do each step. Defaults to a ReflexPolicy
	// using MovingCost.
	Policy agent.Policy
	// Ledger receives the agent's audit trail. A fresh one is created when nil.
	Ledger *ledger.Ledger
	// Metrics records agent metrics. Defaults to a no-op recorder.
	Metrics telemetry.Recorder
	// Tracer creates step spans. Defaults to the global tracer.
	Tracer trace.Tracer
}

// AgentSnapshot is a read-only view of the agent for reporting.
type AgentSnapshot struct {
	State          agent.RunningState   `json:"state"`
	Location       int                  `json:"location"`
	Energy         agent.EnergySnapshot `json:"energy"`
	RoomsCleaned   int                  `json:"rooms_cleaned"`
	Actions        []agent.Action       `json:"actions"`
	ShutdownReason string               `json:"shutdown_reason,omitempty"`
}

// Agent is the cleaning agent. It owns its location, energy, running state,
// cleaned-room counter and action history, and acts on the environment
// through perceive, decide and act.
//
// An Agent is not safe for concurrent use.
type Agent struct {
	env        environment.Environment
	policy     agent.Policy
	energy     *agent.Energy
	history    *agent.History
	machine    *statemachine.Interpreter
	ledger     *ledger.Ledger
	metrics    telemetry.Recorder
	tracer     trace.Tracer
	movingCost float64

	location     int
	roomsCleaned int
	step         int
	lastSeen     *agent.PerceivedState
}

// NewAgent creates an agent on env, ON, at the start location and holding
// EnergyPerRoom × RoomCount energy.
func NewAgent(env environment.Environment, opts ...AgentOption) (*Agent, error) {
	cfg := AgentConfig{
		EnergyPerRoom: config.DefaultEnergyPerRoom,
		MovingCost:    agent.MovingCost,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return newAgent(env, cfg)
}

func newAgent(env environment.Environment, cfg AgentConfig) (*Agent, error) {
	if env == nil {
		return nil, ErrNoEnvironment
	}
	if cfg.EnergyPerRoom < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnergy, cfg.EnergyPerRoom)
	}
	if !env.RoomExists(cfg.StartLocation) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStartLocation, cfg.StartLocation)
	}
	if cfg.MovingCost <= 0 {
		cfg.MovingCost = agent.MovingCost
	}
	if cfg.Policy == nil {
		cfg.Policy = &agent.ReflexPolicy{MovingCost: cfg.MovingCost}
	}
	if cfg.Ledger == nil {
		cfg.Ledger = ledger.New(uuid.NewString())
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NoopRecorder{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(observability.TracerName)
	}

	machine, err := statemachine.Start(statemachine.NewContext(cfg.Ledger))
	if err != nil {
		return nil, err
	}

	return &Agent{
		env:        env,
		policy:     cfg.Policy,
		energy:     agent.NewEnergy(cfg.EnergyPerRoom * float64(env.RoomCount())),
		history:    agent.NewHistory(),
		machine:    machine,
		ledger:     cfg.Ledger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
		movingCost: cfg.MovingCost,
		location:   cfg.StartLocation,
	}, nil
}

// Run performs one perceive → decide → act cycle at timestamp t and returns
// the running state afterwards. An agent that is OFF returns OFF at once
// without perceiving or changing anything.
func (a *Agent) Run(ctx context.Context, t int) (agent.RunningState, error) {
	if a.machine.IsOff() {
		return agent.RunningOff, nil
	}

	a.step = t
	ctx, span := observability.StartStepSpan(ctx, a.tracer, t)

	state, err := a.Perceive()
	if err != nil {
		err = fmt.Errorf("%s: %w", stagePerceive, err)
		a.metrics.RecordError(ctx, stagePerceive)
		observability.EndSpan(span, err)
		return a.State(), err
	}
	a.lastSeen = &state
	a.ledger.RecordPerceived(t, state)

	logging.Debug().
		Add(logging.SimulationID(a.ledger.SimulationID())).
		Add(logging.Timestamp(t)).
		Add(logging.RunningState(a.State())).
		Add(logging.Energy(a.energy.Snapshot())).
		Add(logging.Room(state.CurrentRoom)).
		Msg("perceived")

	decision := a.Decide(state)

	action, err := a.Act(ctx, decision)
	if err != nil {
		err = fmt.Errorf("%s: %w", stageAct, err)
		a.metrics.RecordError(ctx, stageAct)
		observability.EndSpan(span, err)
		return a.State(), err
	}

	span.SetAttributes(
		attribute.String("agent.action", string(action)),
		attribute.String("agent.running_state", string(a.State())),
	)
	observability.EndSpan(span, nil)

	return a.State(), nil
}

// Perceive reads the current room and a snapshot of every room. It does not
// change the agent.
func (a *Agent) Perceive() (agent.PerceivedState, error) {
	if a.machine.IsOff() {
		return agent.PerceivedState{}, agent.ErrAgentOff
	}

	clean, err := a.env.IsRoomClean(a.location)
	if err != nil {
		return agent.PerceivedState{}, err
	}
	level, err := a.env.DirtinessLevel(a.location)
	if err != nil {
		return agent.PerceivedState{}, err
	}
	room, err := environment.NewRoomState(a.location, clean, level)
	if err != nil {
		return agent.PerceivedState{}, err
	}

	return agent.NewPerceivedState(room, a.env.RoomsStatus()), nil
}

// Decide asks the policy for exactly one decision about state.
func (a *Agent) Decide(state agent.PerceivedState) agent.Decision {
	decision := a.policy.Decide(state, a.energy)
	a.ledger.RecordDecision(a.step, decision)
	return decision
}

// Act carries out decision and appends the action to the history. Every
// precondition of the action is checked before anything changes.
func (a *Agent) Act(ctx context.Context, decision agent.Decision) (agent.Action, error) {
	if a.machine.IsOff() {
		return "", agent.ErrAgentOff
	}
	if !a.env.RoomExists(decision.OnRoom.Index) {
		return "", fmt.Errorf("%w: room %d", agent.ErrInvalidDecision, decision.OnRoom.Index)
	}

	from := a.location
	var action agent.Action

	switch decision.Type {
	case agent.DecisionSuck:
		if decision.Suck == nil {
			return "", fmt.Errorf("%w: suck without target", agent.ErrInvalidDecision)
		}
		if err := a.suck(ctx, decision.Suck.Room); err != nil {
			return "", err
		}
		action = agent.ActionSuck

	case agent.DecisionMove:
		if decision.Move == nil {
			return "", fmt.Errorf("%w: move without direction", agent.ErrInvalidDecision)
		}
		if err := a.move(ctx, decision.Move.Direction); err != nil {
			return "", err
		}
		action = decision.Move.Direction

	case agent.DecisionShutdown:
		if decision.Shutdown == nil {
			return "", fmt.Errorf("%w: shutdown without reason", agent.ErrInvalidDecision)
		}
		if err := a.machine.TurnOff(a.step, decision.Shutdown.Reason); err != nil {
			return "", err
		}
		a.metrics.RecordShutdown(ctx, decision.Shutdown.Reason)
		action = agent.ActionTurnOff

	default:
		return "", fmt.Errorf("%w: %q", agent.ErrInvalidAction, decision.Type)
	}

	a.history.Append(action)
	a.ledger.RecordAction(a.step, a.State(), ledger.ActionDetails{
		Action:       action,
		FromLocation: from,
		ToLocation:   a.location,
		RoomsCleaned: a.roomsCleaned,
	})
	a.metrics.RecordAction(ctx, action)

	logging.Info().
		Add(logging.SimulationID(a.ledger.SimulationID())).
		Add(logging.Timestamp(a.step)).
		Add(logging.Action(action)).
		Add(logging.Location(a.location)).
		Add(logging.Int("rooms_cleaned", a.roomsCleaned)).
		Add(logging.Energy(a.energy.Snapshot())).
		Add(logging.Rooms(a.env.StatusLog())).
		Msg("acted")

	return action, nil
}

func (a *Agent) suck(ctx context.Context, room environment.RoomState) error {
	if room.Clean {
		return fmt.Errorf("%w: room %d", agent.ErrRoomAlreadyClean, room.Index)
	}
	if !room.Dirtiness.IsDirty() {
		return fmt.Errorf("%w: room %d marked dirty at level %s", agent.ErrInvalidDecision, room.Index, room.Dirtiness)
	}
	if room.Index != a.location {
		return fmt.Errorf("%w: at %d, target %d", agent.ErrLocationMismatch, a.location, room.Index)
	}
	cost := room.Dirtiness.Cost()
	if !a.CanAfford(cost) {
		return fmt.Errorf("%w: suck costs %v, have %v", agent.ErrInsufficientEnergy, cost, a.energy.Level())
	}

	if err := a.env.SuckRoom(room.Index); err != nil {
		return err
	}
	if err := a.DecreaseEnergy(ctx, cost); err != nil {
		return err
	}
	a.roomsCleaned++
	a.metrics.RecordRoomCleaned(ctx, room.Dirtiness)
	return nil
}

func (a *Agent) move(ctx context.Context, direction agent.Action) error {
	if !direction.IsMove() {
		return fmt.Errorf("%w: %s", agent.ErrInvalidMove, direction)
	}
	dest := a.location + direction.Delta()
	if !a.env.RoomExists(dest) {
		return fmt.Errorf("%w: %d", agent.ErrRoomNotFound, dest)
	}
	if !a.CanAfford(a.movingCost) {
		return fmt.Errorf("%w: move costs %v, have %v", agent.ErrInsufficientEnergy, a.movingCost, a.energy.Level())
	}

	if err := a.DecreaseEnergy(ctx, a.movingCost); err != nil {
		return err
	}
	a.location = dest
	return nil
}

// CanAfford reports whether cost can be paid from the current energy.
func (a *Agent) CanAfford(cost float64) bool {
	return a.energy.CanAfford(cost)
}

// DecreaseEnergy debits amount, recording it in the ledger and metrics.
func (a *Agent) DecreaseEnergy(ctx context.Context, amount float64) error {
	if err := a.energy.Decrease(amount); err != nil {
		return err
	}
	snap := a.energy.Snapshot()
	a.ledger.RecordEnergyConsumed(a.step, amount, snap)
	a.metrics.RecordEnergyConsumed(ctx, amount, snap.Level)
	return nil
}

// State returns the running state.
func (a *Agent) State() agent.RunningState {
	return a.machine.State()
}

// Location returns the index of the room the agent is in.
func (a *Agent) Location() int {
	return a.location
}

// RoomsCleaned returns how many rooms the agent has cleaned.
func (a *Agent) RoomsCleaned() int {
	return a.roomsCleaned
}

// Energy returns the current energy state.
func (a *Agent) Energy() agent.EnergySnapshot {
	return a.energy.Snapshot()
}

// ActionHistory returns a copy of the completed actions, oldest first.
func (a *Agent) ActionHistory() []agent.Action {
	return a.history.Actions()
}

// LastPerception returns the most recent perception, if any.
func (a *Agent) LastPerception() (agent.PerceivedState, bool) {
	if a.lastSeen == nil {
		return agent.PerceivedState{}, false
	}
	return *a.lastSeen, true
}

// Ledger returns the agent's audit trail.
func (a *Agent) Ledger() *ledger.Ledger {
	return a.ledger
}

// Snapshot returns a read-only view of the agent.
func (a *Agent) Snapshot() AgentSnapshot {
	return AgentSnapshot{
		State:          a.State(),
		Location:       a.location,
		Energy:         a.energy.Snapshot(),
		RoomsCleaned:   a.roomsCleaned,
		Actions:        a.history.Actions(),
		ShutdownReason: a.machine.Context().ShutdownReason,
	}
}
