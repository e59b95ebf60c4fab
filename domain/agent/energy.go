package agent

import (
	"fmt"
	"sync"
)

// Energy tracks the agent's remaining energy and what it has spent.
// Energy is never replenished.
type Energy struct {
	level    float64
	consumed float64
	mu       sync.RWMutex
}

// EnergySnapshot is an immutable view of the energy state.
type EnergySnapshot struct {
	Level    float64 `json:"level"`
	Consumed float64 `json:"consumed"`
}

// NewEnergy creates an energy store holding initial units.
func NewEnergy(initial float64) *Energy {
	return &Energy{level: initial}
}

// CanAfford reports whether cost can be paid from the current level.
func (e *Energy) CanAfford(cost float64) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.level >= cost
}

// Decrease debits amount from the level and credits it to the consumed total.
// Nothing changes when it fails.
func (e *Energy) Decrease(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.level < amount {
		return fmt.Errorf("%w: need %v, have %v", ErrInsufficientEnergy, amount, e.level)
	}

	e.level -= amount
	e.consumed += amount
	return nil
}

// Level returns the remaining energy.
func (e *Energy) Level() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level
}

// Consumed returns the total energy spent so far.
func (e *Energy) Consumed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.consumed
}

// IsExhausted returns true if no energy is left.
func (e *Energy) IsExhausted() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.level <= 0
}

// Snapshot returns an immutable view of the current energy state.
func (e *Energy) Snapshot() EnergySnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return EnergySnapshot{
		Level:    e.level,
		Consumed: e.consumed,
	}
}
