package environment

import (
	"errors"
	"testing"
)

func TestNewRoomState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		clean   bool
		level   DirtinessLevel
		wantErr error
	}{
		{"clean room", true, Clean, nil},
		{"dirty room", false, High, nil},
		{"clean with dirt", true, Low, ErrInconsistentRoom},
		{"dirty without dirt", false, Clean, ErrInconsistentRoom},
		{"unknown level", false, DirtinessLevel(9), ErrInvalidDirtiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			room, err := NewRoomState(3, tt.clean, tt.level)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewRoomState() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRoomState() error = %v", err)
			}
			if room.Index != 3 || room.Clean != tt.clean || room.Dirtiness != tt.level {
				t.Errorf("NewRoomState() = %+v", room)
			}
		})
	}
}

func TestRoomState_String(t *testing.T) {
	t.Parallel()

	if got := DirtyRoom(1, High).String(); got != "1:HIGH" {
		t.Errorf("String() = %s, want 1:HIGH", got)
	}
	if got := CleanRoom(0).String(); got != "0:CLEAN" {
		t.Errorf("String() = %s, want 0:CLEAN", got)
	}
}

func TestStatus(t *testing.T) {
	t.Parallel()

	status := Status{CleanRoom(0), DirtyRoom(1, Low), DirtyRoom(2, High)}

	if status.AllClean() {
		t.Error("AllClean() = true, want false")
	}
	if got := status.DirtyCount(); got != 2 {
		t.Errorf("DirtyCount() = %d, want 2", got)
	}
	if got := status.String(); got != "[0:CLEAN 1:LOW 2:HIGH]" {
		t.Errorf("String() = %s", got)
	}

	clone := status.Clone()
	clone[1] = CleanRoom(1)
	if status[1].Clean {
		t.Error("Clone() shares backing storage with the original")
	}

	if !(Status{CleanRoom(0)}).AllClean() {
		t.Error("AllClean() = false, want true")
	}
	if Status(nil).Clone() != nil {
		t.Error("Clone() of nil should be nil")
	}
}
