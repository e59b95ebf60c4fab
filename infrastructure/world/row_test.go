package world

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/iclean/domain/environment"
)

func TestNewRow(t *testing.T) {
	t.Parallel()

	row, err := NewRow(RowConfig{Rooms: 6, Seed: 42})
	if err != nil {
		t.Fatalf("NewRow() error = %v", err)
	}

	if row.RoomCount() != 6 {
		t.Errorf("RoomCount() = %d, want 6", row.RoomCount())
	}
	if row.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", row.Seed())
	}
	for i, room := range row.RoomsStatus() {
		if room.Index != i {
			t.Errorf("room %d has index %d", i, room.Index)
		}
		if room.Clean == room.Dirtiness.IsDirty() {
			t.Errorf("room %d is inconsistent: %+v", i, room)
		}
	}
}

func TestNewRow_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  RowConfig
	}{
		{"no rooms", RowConfig{Rooms: 0}},
		{"negative rooms", RowConfig{Rooms: -2}},
		{"initial probability above one", RowConfig{Rooms: 1, InitialDirtProbability: Probability(1.1)}},
		{"negative redirty probability", RowConfig{Rooms: 1, RedirtyProbability: Probability(-0.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewRow(tt.cfg); !errors.Is(err, ErrInvalidRow) {
				t.Errorf("NewRow() error = %v, want ErrInvalidRow", err)
			}
		})
	}
}

func TestNewRow_Deterministic(t *testing.T) {
	t.Parallel()

	cfg := RowConfig{Rooms: 20, Seed: 7, RedirtyProbability: Probability(0.5)}
	a, _ := NewRow(cfg)
	b, _ := NewRow(cfg)

	if a.StatusLog() != b.StatusLog() {
		t.Fatalf("same seed produced different layouts:\n%s\n%s", a.StatusLog(), b.StatusLog())
	}

	for i := 0; i < 5; i++ {
		for j := 0; j < a.RoomCount(); j++ {
			_ = a.SuckRoom(j)
			_ = b.SuckRoom(j)
		}
		da, db := a.RedirtyCleanRooms(), b.RedirtyCleanRooms()
		if len(da) != len(db) {
			t.Fatalf("round %d: redirtied %v vs %v", i, da, db)
		}
		if a.StatusLog() != b.StatusLog() {
			t.Fatalf("round %d: layouts diverged", i)
		}
	}
}

func TestNewRow_Probabilities(t *testing.T) {
	t.Parallel()

	allDirty, _ := NewRow(RowConfig{Rooms: 10, Seed: 1, InitialDirtProbability: Probability(1)})
	if allDirty.RoomsStatus().DirtyCount() != 10 {
		t.Errorf("probability 1 left clean rooms: %s", allDirty.StatusLog())
	}

	allClean, _ := NewRow(RowConfig{Rooms: 10, Seed: 1, InitialDirtProbability: Probability(0)})
	if !allClean.AllRoomsClean() {
		t.Errorf("probability 0 produced dirt: %s", allClean.StatusLog())
	}
}

func TestNewRowFromStatus(t *testing.T) {
	t.Parallel()

	status := environment.Status{
		environment.CleanRoom(0),
		environment.DirtyRoom(1, environment.High),
		environment.DirtyRoom(2, environment.Low),
	}

	row, err := NewRowFromStatus(status, RowConfig{Rooms: 99})
	if err != nil {
		t.Fatalf("NewRowFromStatus() error = %v", err)
	}

	if row.RoomCount() != 3 {
		t.Errorf("RoomCount() = %d, want 3", row.RoomCount())
	}
	if got := row.StatusLog(); got != "[0:CLEAN 1:HIGH 2:LOW]" {
		t.Errorf("StatusLog() = %s", got)
	}

	status[1] = environment.CleanRoom(1)
	if clean, _ := row.IsRoomClean(1); clean {
		t.Error("row should not share storage with the input status")
	}
}

func TestNewRowFromStatus_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  environment.Status
		wantErr error
	}{
		{"empty", environment.Status{}, ErrInvalidRow},
		{"misnumbered", environment.Status{environment.CleanRoom(1)}, ErrInvalidRow},
		{"inconsistent", environment.Status{{Index: 0, Clean: true, Dirtiness: environment.High}}, environment.ErrInconsistentRoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewRowFromStatus(tt.status, RowConfig{}); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRowFromStatus() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRow_Queries(t *testing.T) {
	t.Parallel()

	row, _ := NewRowFromStatus(environment.Status{
		environment.CleanRoom(0),
		environment.DirtyRoom(1, environment.Medium),
	}, RowConfig{})

	if !row.RoomExists(0) || !row.RoomExists(1) {
		t.Error("RoomExists() = false for rooms in the row")
	}
	if row.RoomExists(-1) || row.RoomExists(2) {
		t.Error("RoomExists() = true outside the row")
	}

	clean, err := row.IsRoomClean(1)
	if err != nil || clean {
		t.Errorf("IsRoomClean(1) = %v, %v, want false, nil", clean, err)
	}
	level, err := row.DirtinessLevel(1)
	if err != nil || level != environment.Medium {
		t.Errorf("DirtinessLevel(1) = %v, %v, want MEDIUM, nil", level, err)
	}

	if _, err := row.IsRoomClean(5); !errors.Is(err, environment.ErrRoomNotFound) {
		t.Errorf("IsRoomClean(5) error = %v, want ErrRoomNotFound", err)
	}
	if _, err := row.DirtinessLevel(-1); !errors.Is(err, environment.ErrRoomNotFound) {
		t.Errorf("DirtinessLevel(-1) error = %v, want ErrRoomNotFound", err)
	}
}

func TestRow_SuckRoom(t *testing.T) {
	t.Parallel()

	row, _ := NewRowFromStatus(environment.Status{
		environment.DirtyRoom(0, environment.High),
		environment.CleanRoom(1),
	}, RowConfig{})

	if err := row.SuckRoom(0); err != nil {
		t.Fatalf("SuckRoom(0) error = %v", err)
	}
	if !row.AllRoomsClean() {
		t.Errorf("AllRoomsClean() = false after cleaning: %s", row.StatusLog())
	}

	// Idempotent on clean rooms.
	if err := row.SuckRoom(1); err != nil {
		t.Errorf("SuckRoom(1) on clean room error = %v", err)
	}
	if err := row.SuckRoom(2); !errors.Is(err, environment.ErrRoomNotFound) {
		t.Errorf("SuckRoom(2) error = %v, want ErrRoomNotFound", err)
	}
}

func TestRow_RedirtyCleanRooms(t *testing.T) {
	t.Parallel()

	status := environment.Status{
		environment.CleanRoom(0),
		environment.DirtyRoom(1, environment.Low),
		environment.CleanRoom(2),
	}

	never, _ := NewRowFromStatus(status, RowConfig{Seed: 3, RedirtyProbability: Probability(0)})
	if got := never.RedirtyCleanRooms(); len(got) != 0 {
		t.Errorf("RedirtyCleanRooms() with probability 0 = %v", got)
	}

	always, _ := NewRowFromStatus(status, RowConfig{Seed: 3, RedirtyProbability: Probability(1)})
	got := always.RedirtyCleanRooms()
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("RedirtyCleanRooms() with probability 1 = %v, want [0 2]", got)
	}
	if level, _ := always.DirtinessLevel(1); level != environment.Low {
		t.Errorf("dirty room changed level to %v", level)
	}
	if always.AllRoomsClean() {
		t.Error("AllRoomsClean() = true after re-dirtying")
	}
}
