package application

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/world"
)

// runRandom simulates a seeded random row and returns the per-step results.
func runRandom(t *testing.T, seed uint64, rooms, maxSteps int) (*simulation.Report, []StepResult) {
	t.Helper()

	row, err := world.NewRow(world.RowConfig{Rooms: rooms, Seed: seed})
	if err != nil {
		t.Fatalf("NewRow() error = %v", err)
	}

	var steps []StepResult
	sim := newTestSimulator(t, SimulatorConfig{
		Environment: row,
		MaxSteps:    maxSteps,
		Seed:        seed,
		OnStep:      func(r StepResult) { steps = append(steps, r) },
	})

	report, err := sim.Run(context.Background())
	if err != nil {
		t.Fatalf("seed %d: Run() error = %v", seed, err)
	}
	return report, steps
}

// expectedAction applies the reflex rules to what the agent saw at step start.
func expectedAction(r StepResult, rooms int) agent.Action {
	room := r.Room
	switch {
	case !room.Clean && r.StartEnergy >= room.Dirtiness.Cost():
		return agent.ActionSuck
	case room.Index+1 < rooms && r.StartEnergy >= agent.MovingCost:
		return agent.ActionMoveRight
	case room.Index-1 >= 0 && r.StartEnergy >= agent.MovingCost:
		return agent.ActionMoveLeft
	default:
		return agent.ActionTurnOff
	}
}

func actionCost(r StepResult) float64 {
	switch r.Action {
	case agent.ActionSuck:
		return r.Room.Dirtiness.Cost()
	case agent.ActionMoveLeft, agent.ActionMoveRight:
		return agent.MovingCost
	default:
		return 0
	}
}

func TestSimulator_Invariants(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 40; seed++ {
		rooms := int(seed%7) + 1
		maxSteps := int(seed%5)*4 + 3

		report, steps := runRandom(t, seed, rooms, maxSteps)

		if len(steps) != report.StepsExecuted {
			t.Fatalf("seed %d: %d step results for %d steps", seed, len(steps), report.StepsExecuted)
		}
		if report.StepsExecuted < 1 || report.StepsExecuted > maxSteps {
			t.Errorf("seed %d: StepsExecuted = %d outside [1, %d]", seed, report.StepsExecuted, maxSteps)
		}
		if len(report.StopReasons) == 0 {
			t.Errorf("seed %d: no stop reason", seed)
		}

		prevCleaned := 0
		for i, r := range steps {
			if r.StartState != agent.RunningOn {
				t.Errorf("seed %d step %d: started %s", seed, i, r.StartState)
			}
			if r.RemainingEnergy < 0 {
				t.Errorf("seed %d step %d: negative energy %v", seed, i, r.RemainingEnergy)
			}
			if !approxEqual(r.EnergyConsumed+r.RemainingEnergy, report.InitialEnergy) {
				t.Errorf("seed %d step %d: consumed %v + remaining %v != initial %v",
					seed, i, r.EnergyConsumed, r.RemainingEnergy, report.InitialEnergy)
			}
			if want := expectedAction(r, rooms); r.Action != want {
				t.Errorf("seed %d step %d: action %s in room %s with energy %v, want %s",
					seed, i, r.Action, r.Room, r.StartEnergy, want)
			}
			if cost := actionCost(r); cost > r.StartEnergy || !approxEqual(r.StartEnergy-r.RemainingEnergy, cost) {
				t.Errorf("seed %d step %d: %s spent %v of %v, want %v",
					seed, i, r.Action, r.StartEnergy-r.RemainingEnergy, r.StartEnergy, cost)
			}
			if r.RoomsCleaned < prevCleaned {
				t.Errorf("seed %d step %d: rooms cleaned went from %d to %d", seed, i, prevCleaned, r.RoomsCleaned)
			}
			prevCleaned = r.RoomsCleaned

			last := i == len(steps)-1
			if !last && len(r.StopReasons) > 0 {
				t.Errorf("seed %d step %d: stop reasons %v before the last step", seed, i, r.StopReasons)
			}
			if r.Action == agent.ActionTurnOff && !last {
				t.Errorf("seed %d step %d: simulation continued after TURN_OFF", seed, i)
			}
			if r.Action == agent.ActionTurnOff && !containsReason(r.StopReasons, simulation.StopAgentOff) {
				t.Errorf("seed %d step %d: TURN_OFF without agent_off stop", seed, i)
			}
		}

		if len(report.Actions) != len(steps) {
			t.Fatalf("seed %d: %d actions for %d steps", seed, len(report.Actions), len(steps))
		}
		for i, r := range steps {
			if report.Actions[i] != r.Action {
				t.Errorf("seed %d: Actions[%d] = %s, step reported %s", seed, i, report.Actions[i], r.Action)
			}
		}
		if report.RoomsCleaned != countActions(report.Actions, agent.ActionSuck) {
			t.Errorf("seed %d: RoomsCleaned = %d, SUCK actions = %d",
				seed, report.RoomsCleaned, countActions(report.Actions, agent.ActionSuck))
		}
		if (report.FinalState == agent.RunningOff) != report.HasStopReason(simulation.StopAgentOff) {
			t.Errorf("seed %d: final state %s with stop reasons %v", seed, report.FinalState, report.StopReasons)
		}
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	t.Parallel()

	a, _ := runRandom(t, 99, 5, 20)
	b, _ := runRandom(t, 99, 5, 20)

	if a.InitialStatus.String() != b.InitialStatus.String() {
		t.Errorf("initial status %s != %s", a.InitialStatus, b.InitialStatus)
	}
	if a.FinalStatusLog != b.FinalStatusLog {
		t.Errorf("final status %s != %s", a.FinalStatusLog, b.FinalStatusLog)
	}
	if len(a.Actions) != len(b.Actions) {
		t.Fatalf("actions %v != %v", a.Actions, b.Actions)
	}
	for i := range a.Actions {
		if a.Actions[i] != b.Actions[i] {
			t.Fatalf("actions %v != %v", a.Actions, b.Actions)
		}
	}
}

func containsReason(reasons []simulation.StopReason, want simulation.StopReason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func countActions(actions []agent.Action, want agent.Action) int {
	n := 0
	for _, a := range actions {
		if a == want {
			n++
		}
	}
	return n
}
