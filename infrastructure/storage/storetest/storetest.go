// Package storetest provides a conformance suite for simulation.Store
// implementations.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
	"github.com/felixgeelhaar/iclean/domain/simulation"
)

// NewReport returns a finished two-room report started at start.
func NewReport(id string, start time.Time, reasons ...simulation.StopReason) *simulation.Report {
	return &simulation.Report{
		ID:              id,
		Rooms:           2,
		MaxSteps:        10,
		Seed:            42,
		StepsExecuted:   3,
		RoomsCleaned:    1,
		InitialEnergy:   5.0,
		EnergyConsumed:  3.0,
		RemainingEnergy: 2.0,
		InitialStatus: environment.Status{
			environment.DirtyRoom(0, environment.Medium),
			environment.CleanRoom(1),
		},
		FinalStatus: environment.Status{
			environment.CleanRoom(0),
			environment.CleanRoom(1),
		},
		FinalStatusLog: "(0, Clean)(1, Clean)",
		Actions:        []agent.Action{agent.ActionSuck},
		FinalState:     agent.RunningOff,
		StopReasons:    reasons,
		StartedAt:      start,
		EndedAt:        start.Add(time.Second),
	}
}

// Run exercises every simulation.Store operation against stores created by
// newStore. Each subtest receives a fresh store.
func Run(t *testing.T, newStore func(t *testing.T) simulation.Store) {
	t.Helper()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("save and get round trips", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		want := NewReport("sim-1", base, simulation.StopAllClean)
		if err := store.Save(ctx, want); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := store.Get(ctx, "sim-1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.ID != want.ID || got.Rooms != want.Rooms || got.Seed != want.Seed {
			t.Errorf("Get() = %+v, want %+v", got, want)
		}
		if got.RemainingEnergy != 2.0 || got.EnergyConsumed != 3.0 {
			t.Errorf("energy = %v/%v, want 3/2", got.EnergyConsumed, got.RemainingEnergy)
		}
		if len(got.FinalStatus) != 2 || !got.FinalStatus.AllClean() {
			t.Errorf("FinalStatus = %v, want two clean rooms", got.FinalStatus)
		}
		if len(got.Actions) != 1 || got.Actions[0] != agent.ActionSuck {
			t.Errorf("Actions = %v, want [SUCK]", got.Actions)
		}
		if !got.HasStopReason(simulation.StopAllClean) {
			t.Errorf("StopReasons = %v, want all_clean", got.StopReasons)
		}
		if !got.StartedAt.Equal(want.StartedAt) {
			t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
		}
	})

	t.Run("save rejects empty ID", func(t *testing.T) {
		store := newStore(t)

		err := store.Save(context.Background(), NewReport("", base))
		if !errors.Is(err, simulation.ErrInvalidReportID) {
			t.Errorf("Save() error = %v, want ErrInvalidReportID", err)
		}
	})

	t.Run("save rejects duplicate ID", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.Save(ctx, NewReport("sim-1", base)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		err := store.Save(ctx, NewReport("sim-1", base))
		if !errors.Is(err, simulation.ErrReportExists) {
			t.Errorf("Save() error = %v, want ErrReportExists", err)
		}
	})

	t.Run("get missing report", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(context.Background(), "missing")
		if !errors.Is(err, simulation.ErrReportNotFound) {
			t.Errorf("Get() error = %v, want ErrReportNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		if err := store.Save(ctx, NewReport("sim-1", base)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Delete(ctx, "sim-1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := store.Get(ctx, "sim-1"); !errors.Is(err, simulation.ErrReportNotFound) {
			t.Errorf("Get() after Delete() error = %v, want ErrReportNotFound", err)
		}
		if err := store.Delete(ctx, "sim-1"); !errors.Is(err, simulation.ErrReportNotFound) {
			t.Errorf("second Delete() error = %v, want ErrReportNotFound", err)
		}
	})

	t.Run("list orders most recent first and paginates", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for i, id := range []string{"a", "b", "c"} {
			r := NewReport(id, base.Add(time.Duration(i)*time.Minute), simulation.StopMaxSteps)
			if err := store.Save(ctx, r); err != nil {
				t.Fatalf("Save(%s) error = %v", id, err)
			}
		}

		all, err := store.List(ctx, simulation.ListFilter{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got := ids(all); !equal(got, []string{"c", "b", "a"}) {
			t.Errorf("List() = %v, want [c b a]", got)
		}

		page, err := store.List(ctx, simulation.ListFilter{Limit: 1, Offset: 1})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if got := ids(page); !equal(got, []string{"b"}) {
			t.Errorf("List(limit=1, offset=1) = %v, want [b]", got)
		}

		past, err := store.List(ctx, simulation.ListFilter{Offset: 10})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(past) != 0 {
			t.Errorf("List(offset=10) = %v, want empty", ids(past))
		}
	})

	t.Run("filter by stop reason", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		reports := []*simulation.Report{
			NewReport("off", base, simulation.StopAgentOff),
			NewReport("clean", base.Add(time.Minute), simulation.StopAllClean),
			NewReport("both", base.Add(2*time.Minute), simulation.StopAgentOff, simulation.StopAllClean),
		}
		for _, r := range reports {
			if err := store.Save(ctx, r); err != nil {
				t.Fatalf("Save(%s) error = %v", r.ID, err)
			}
		}

		filter := simulation.ListFilter{StopReason: simulation.StopAgentOff}
		got, err := store.List(ctx, filter)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if !equal(ids(got), []string{"both", "off"}) {
			t.Errorf("List(agent_off) = %v, want [both off]", ids(got))
		}

		n, err := store.Count(ctx, filter)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Count(agent_off) = %d, want 2", n)
		}

		total, err := store.Count(ctx, simulation.ListFilter{})
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if total != 3 {
			t.Errorf("Count() = %d, want 3", total)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		store := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := store.Save(ctx, NewReport("sim-1", base)); !errors.Is(err, context.Canceled) {
			t.Errorf("Save() error = %v, want context.Canceled", err)
		}
	})
}

func ids(reports []*simulation.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
