package agent

import (
	"errors"
	"testing"
)

func TestNewEnergy(t *testing.T) {
	t.Parallel()

	e := NewEnergy(7.5)

	if e.Level() != 7.5 {
		t.Errorf("Level() = %v, want 7.5", e.Level())
	}
	if e.Consumed() != 0 {
		t.Errorf("Consumed() = %v, want 0", e.Consumed())
	}
}

func TestEnergy_CanAfford(t *testing.T) {
	t.Parallel()

	e := NewEnergy(2)

	tests := []struct {
		name     string
		cost     float64
		expected bool
	}{
		{"below level", 1, true},
		{"at level", 2, true},
		{"above level", 2.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := e.CanAfford(tt.cost); got != tt.expected {
				t.Errorf("CanAfford(%v) = %v, want %v", tt.cost, got, tt.expected)
			}
		})
	}
}

func TestEnergy_Decrease(t *testing.T) {
	t.Parallel()

	t.Run("successful debit", func(t *testing.T) {
		t.Parallel()

		e := NewEnergy(7.5)
		if err := e.Decrease(2); err != nil {
			t.Fatalf("Decrease() error = %v", err)
		}

		if e.Level() != 5.5 {
			t.Errorf("Level() = %v, want 5.5", e.Level())
		}
		if e.Consumed() != 2 {
			t.Errorf("Consumed() = %v, want 2", e.Consumed())
		}
	})

	t.Run("exact level drains to zero", func(t *testing.T) {
		t.Parallel()

		e := NewEnergy(1)
		if err := e.Decrease(1); err != nil {
			t.Fatalf("Decrease() error = %v", err)
		}
		if !e.IsExhausted() {
			t.Error("energy should be exhausted")
		}
	})

	t.Run("insufficient energy leaves state untouched", func(t *testing.T) {
		t.Parallel()

		e := NewEnergy(0.4)
		err := e.Decrease(1)
		if !errors.Is(err, ErrInsufficientEnergy) {
			t.Fatalf("Decrease() error = %v, want ErrInsufficientEnergy", err)
		}
		if e.Level() != 0.4 {
			t.Errorf("Level() = %v, want 0.4", e.Level())
		}
		if e.Consumed() != 0 {
			t.Errorf("Consumed() = %v, want 0", e.Consumed())
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		t.Parallel()

		e := NewEnergy(5)
		for _, amount := range []float64{0, -1} {
			if err := e.Decrease(amount); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Decrease(%v) error = %v, want ErrInvalidAmount", amount, err)
			}
		}
		if e.Level() != 5 {
			t.Errorf("Level() = %v, want 5", e.Level())
		}
	})
}

func TestEnergy_Conservation(t *testing.T) {
	t.Parallel()

	e := NewEnergy(10)
	costs := []float64{1, 3, 2, 1, 0.5}

	for _, c := range costs {
		before := e.Snapshot()
		if err := e.Decrease(c); err != nil {
			t.Fatalf("Decrease(%v) error = %v", c, err)
		}
		after := e.Snapshot()

		if after.Consumed-before.Consumed != c {
			t.Errorf("consumed grew by %v, want %v", after.Consumed-before.Consumed, c)
		}
		if before.Level-after.Level != c {
			t.Errorf("level dropped by %v, want %v", before.Level-after.Level, c)
		}
		if after.Level+after.Consumed != 10 {
			t.Errorf("level + consumed = %v, want 10", after.Level+after.Consumed)
		}
	}
}
