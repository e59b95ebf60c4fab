// Package environment provides the domain model of the row of rooms the
// cleaning agent operates in.
package environment

import (
	"fmt"
	"strings"
)

// DirtinessLevel is the ordinal dirtiness tier of a room.
// Its numeric value doubles as the energy needed to clean the room.
type DirtinessLevel int

// Dirtiness tiers. Clean is the sentinel for a room that needs no cleaning.
const (
	Clean  DirtinessLevel = 0
	Low    DirtinessLevel = 1
	Medium DirtinessLevel = 2
	High   DirtinessLevel = 3
)

// Cost returns the energy needed to clean a room at this level.
func (d DirtinessLevel) Cost() float64 {
	return float64(d)
}

// IsDirty returns true for every level except Clean.
func (d DirtinessLevel) IsDirty() bool {
	return d != Clean
}

// IsValid returns true if the level is a recognized tier.
func (d DirtinessLevel) IsValid() bool {
	switch d {
	case Clean, Low, Medium, High:
		return true
	default:
		return false
	}
}

// String returns the upper-case tier name.
func (d DirtinessLevel) String() string {
	switch d {
	case Clean:
		return "CLEAN"
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(d))
	}
}

// ParseDirtinessLevel parses a tier name, case-insensitively.
func ParseDirtinessLevel(s string) (DirtinessLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CLEAN":
		return Clean, nil
	case "LOW":
		return Low, nil
	case "MEDIUM":
		return Medium, nil
	case "HIGH":
		return High, nil
	default:
		return Clean, fmt.Errorf("%w: %q", ErrInvalidDirtiness, s)
	}
}

// DirtyLevels returns the tiers a room can be dirtied to.
func DirtyLevels() []DirtinessLevel {
	return []DirtinessLevel{Low, Medium, High}
}
