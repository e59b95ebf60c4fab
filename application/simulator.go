package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
	"github.com/felixgeelhaar/iclean/domain/ledger"
	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/logging"
	"github.com/felixgeelhaar/iclean/infrastructure/observability"
	"github.com/felixgeelhaar/iclean/infrastructure/telemetry"
)

// SimulatorConfig contains configuration for a simulation.
type SimulatorConfig struct {
	// ID identifies the simulation. A UUID is generated when empty.
	ID string
	// Environment is the row of rooms. Required.
	Environment environment.Environment
	// MaxSteps is the number of timestamps to simulate. Must be at least 1.
	MaxSteps int
	// Seed is recorded in the report.
	Seed uint64
	// AgentOptions configure the agent. Ledger, metrics and tracer are
	// supplied by the simulator.
	AgentOptions []AgentOption
	// Store persists the finished report. Nil skips persistence.
	Store simulation.Store
	// Metrics records metrics. Defaults to a no-op recorder.
	Metrics telemetry.Recorder
	// Tracer creates simulation and step spans. Defaults to the global tracer.
	Tracer trace.Tracer
	// OnStep is called after every timestamp. Optional.
	OnStep func(StepResult)
}

// StepResult describes one timestamp of a simulation.
type StepResult struct {
	Timestamp       int
	StartState      agent.RunningState
	StartEnergy     float64
	Room            environment.RoomState
	Action          agent.Action
	RoomsCleaned    int
	RemainingEnergy float64
	EnergyConsumed  float64
	RoomsStatusLog  string
	Redirtied       []int
	StopReasons     []simulation.StopReason
}

// Simulator drives one agent through at most MaxSteps timestamps.
type Simulator struct {
	id       string
	env      environment.Environment
	agent    *Agent
	ledger   *ledger.Ledger
	maxSteps int
	seed     uint64
	store    simulation.Store
	metrics  telemetry.Recorder
	tracer   trace.Tracer
	onStep   func(StepResult)
	ran      bool
}

// NewSimulator creates a simulator and its agent.
func NewSimulator(cfg SimulatorConfig) (*Simulator, error) {
	if cfg.Environment == nil {
		return nil, ErrNoEnvironment
	}
	if cfg.MaxSteps < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxSteps, cfg.MaxSteps)
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = telemetry.NoopRecorder{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = otel.Tracer(observability.TracerName)
	}

	l := ledger.New(cfg.ID)
	opts := append([]AgentOption{}, cfg.AgentOptions...)
	opts = append(opts, WithLedger(l), WithMetrics(cfg.Metrics), WithTracer(cfg.Tracer))

	a, err := NewAgent(cfg.Environment, opts...)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		id:       cfg.ID,
		env:      cfg.Environment,
		agent:    a,
		ledger:   l,
		maxSteps: cfg.MaxSteps,
		seed:     cfg.Seed,
		store:    cfg.Store,
		metrics:  cfg.Metrics,
		tracer:   cfg.Tracer,
		onStep:   cfg.OnStep,
	}, nil
}

// ID returns the simulation ID.
func (s *Simulator) ID() string {
	return s.id
}

// Agent returns the simulated agent.
func (s *Simulator) Agent() *Agent {
	return s.agent
}

// Ledger returns the simulation's audit trail.
func (s *Simulator) Ledger() *ledger.Ledger {
	return s.ledger
}

// Run simulates until a stop condition holds and returns the report. Each
// timestamp runs the agent, checks whether every room is clean, lets the
// environment re-dirty rooms, then evaluates the stop conditions. Any agent
// error is fatal. Cancellation is checked between timestamps and ends the
// simulation with StopCanceled.
func (s *Simulator) Run(ctx context.Context) (*simulation.Report, error) {
	if s.ran {
		return nil, ErrAlreadyRun
	}
	s.ran = true

	ctx, span := observability.StartSimulationSpan(ctx, s.tracer, s.id, s.env.RoomCount(), s.maxSteps)

	startedAt := time.Now()
	initialStatus := s.env.RoomsStatus()
	initialEnergy := s.agent.Energy().Level

	s.ledger.RecordSimulationStarted(ledger.StartedDetails{
		Rooms:         s.env.RoomCount(),
		MaxSteps:      s.maxSteps,
		InitialEnergy: initialEnergy,
		Location:      s.agent.Location(),
		RoomsStatus:   initialStatus.String(),
	})

	logging.Info().
		Add(logging.SimulationID(s.id)).
		Add(logging.Int("rooms", s.env.RoomCount())).
		Add(logging.Int("max_steps", s.maxSteps)).
		Add(logging.Energy(s.agent.Energy())).
		Add(logging.Rooms(s.env.StatusLog())).
		Msg("simulation started")

	var (
		steps   int
		reasons []simulation.StopReason
	)

	for t := 0; t < s.maxSteps; t++ {
		if ctx.Err() != nil {
			reasons = []simulation.StopReason{simulation.StopCanceled}
			break
		}

		before := s.agent.Snapshot()

		state, err := s.agent.Run(ctx, t)
		if err != nil {
			err = fmt.Errorf("timestamp %d: %w", t, err)
			s.ledger.RecordSimulationFailed(t, state, err)
			logging.Error().
				Add(logging.SimulationID(s.id)).
				Add(logging.Timestamp(t)).
				Add(logging.RunningState(state)).
				Add(logging.ErrorField(err)).
				Msg("simulation failed")
			observability.EndSpan(span, err)
			return nil, err
		}
		steps = t + 1

		after := s.agent.Snapshot()
		statusLog := s.env.StatusLog()

		allClean := s.env.AllRoomsClean()
		dirtied := s.env.RedirtyCleanRooms()
		if len(dirtied) > 0 {
			s.ledger.RecordRedirtied(t, state, dirtied)
			s.metrics.RecordRedirtied(ctx, len(dirtied))
			logging.Debug().
				Add(logging.SimulationID(s.id)).
				Add(logging.Timestamp(t)).
				Add(logging.Int("redirtied", len(dirtied))).
				Add(logging.Rooms(s.env.StatusLog())).
				Msg("rooms redirtied")
		}

		reasons = stopReasons(s.maxSteps-t-1, state, allClean)

		if s.onStep != nil {
			s.onStep(s.stepResult(t, before, after, statusLog, dirtied, reasons))
		}

		if len(reasons) > 0 {
			break
		}
	}

	report := s.report(steps, initialEnergy, initialStatus, reasons, startedAt)

	s.ledger.RecordSimulationEnded(steps, report.FinalState, report.StopReasonStrings())
	s.metrics.RecordSimulation(ctx, steps, report.Duration(), report.StopReasonStrings())

	span.SetAttributes(
		attribute.Int("simulation.steps", steps),
		attribute.StringSlice("simulation.stop_reasons", report.StopReasonStrings()),
	)

	logging.Info().
		Add(logging.SimulationID(s.id)).
		Add(logging.Int("steps", steps)).
		Add(logging.Int("rooms_cleaned", report.RoomsCleaned)).
		Add(logging.Energy(s.agent.Energy())).
		Add(logging.RunningState(report.FinalState)).
		Add(logging.Rooms(report.FinalStatusLog)).
		Add(logging.Duration(report.Duration())).
		Msg("simulation ended")

	if err := s.persist(ctx, report); err != nil {
		observability.EndSpan(span, err)
		return report, err
	}

	observability.EndSpan(span, nil)
	return report, nil
}

// stopReasons returns every stop condition that holds after a timestamp.
func stopReasons(stepsLeft int, state agent.RunningState, allClean bool) []simulation.StopReason {
	var reasons []simulation.StopReason
	if state == agent.RunningOff {
		reasons = append(reasons, simulation.StopAgentOff)
	}
	if allClean {
		reasons = append(reasons, simulation.StopAllClean)
	}
	if stepsLeft == 0 {
		reasons = append(reasons, simulation.StopMaxSteps)
	}
	return reasons
}

func (s *Simulator) stepResult(t int, before, after AgentSnapshot, statusLog string, dirtied []int, reasons []simulation.StopReason) StepResult {
	result := StepResult{
		Timestamp:       t,
		StartState:      before.State,
		StartEnergy:     before.Energy.Level,
		RoomsCleaned:    after.RoomsCleaned,
		RemainingEnergy: after.Energy.Level,
		EnergyConsumed:  after.Energy.Consumed,
		RoomsStatusLog:  statusLog,
		Redirtied:       dirtied,
		StopReasons:     reasons,
	}
	if seen, ok := s.agent.LastPerception(); ok {
		result.Room = seen.CurrentRoom
	}
	if len(after.Actions) > len(before.Actions) {
		result.Action = after.Actions[len(after.Actions)-1]
	}
	return result
}

func (s *Simulator) report(steps int, initialEnergy float64, initialStatus environment.Status, reasons []simulation.StopReason, startedAt time.Time) *simulation.Report {
	snap := s.agent.Snapshot()
	return &simulation.Report{
		ID:              s.id,
		Rooms:           s.env.RoomCount(),
		MaxSteps:        s.maxSteps,
		Seed:            s.seed,
		StepsExecuted:   steps,
		RoomsCleaned:    snap.RoomsCleaned,
		InitialEnergy:   initialEnergy,
		EnergyConsumed:  snap.Energy.Consumed,
		RemainingEnergy: snap.Energy.Level,
		InitialStatus:   initialStatus,
		FinalStatus:     s.env.RoomsStatus(),
		FinalStatusLog:  s.env.StatusLog(),
		Actions:         snap.Actions,
		FinalState:      snap.State,
		StopReasons:     reasons,
		StartedAt:       startedAt,
		EndedAt:         time.Now(),
	}
}

// persist saves the report even when ctx was canceled mid-simulation.
func (s *Simulator) persist(ctx context.Context, report *simulation.Report) error {
	if s.store == nil {
		return nil
	}

	if err := s.store.Save(context.WithoutCancel(ctx), report); err != nil {
		s.metrics.RecordError(ctx, "persist")
		logging.Error().
			Add(logging.SimulationID(s.id)).
			Add(logging.ErrorField(err)).
			Msg("failed to persist report")
		return fmt.Errorf("persist report: %w", err)
	}

	logging.Debug().
		Add(logging.SimulationID(s.id)).
		Msg("report persisted")
	return nil
}
