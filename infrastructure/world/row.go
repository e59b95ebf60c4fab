// Package world provides the row-of-rooms environment the agent cleans.
package world

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/felixgeelhaar/iclean/domain/environment"
)

// Default probabilities.
const (
	DefaultInitialDirtProbability = 0.5
	DefaultRedirtyProbability     = 0.2
)

// RowConfig configures a row of rooms.
type RowConfig struct {
	// Rooms is the number of rooms; must be at least 1.
	Rooms int
	// Seed makes the layout and re-dirtying reproducible. Zero picks a seed
	// from the clock.
	Seed uint64
	// InitialDirtProbability is the chance each room starts dirty.
	// Nil means DefaultInitialDirtProbability.
	InitialDirtProbability *float64
	// RedirtyProbability is the chance each clean room gets dirty when the
	// row advances. Nil means DefaultRedirtyProbability.
	RedirtyProbability *float64
}

// Probability returns a pointer to p, for RowConfig literals.
func Probability(p float64) *float64 {
	return &p
}

func (c RowConfig) initialDirt() float64 {
	if c.InitialDirtProbability == nil {
		return DefaultInitialDirtProbability
	}
	return *c.InitialDirtProbability
}

func (c RowConfig) redirty() float64 {
	if c.RedirtyProbability == nil {
		return DefaultRedirtyProbability
	}
	return *c.RedirtyProbability
}

func (c RowConfig) validate() error {
	if c.Rooms < 1 {
		return fmt.Errorf("%w: need at least one room, got %d", ErrInvalidRow, c.Rooms)
	}
	for name, p := range map[string]float64{
		"initial dirt": c.initialDirt(),
		"redirty":      c.redirty(),
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s probability %v outside [0, 1]", ErrInvalidRow, name, p)
		}
	}
	return nil
}

// Row is a fixed-length row of rooms. It is not safe for concurrent use;
// the simulator serializes the agent's act step and re-dirtying.
type Row struct {
	rooms   []environment.DirtinessLevel
	rng     *rand.Rand
	seed    uint64
	redirty float64
}

// NewRow creates a row whose rooms start dirty at random.
func NewRow(cfg RowConfig) (*Row, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := newRow(cfg)
	p := cfg.initialDirt()
	for i := range r.rooms {
		if r.rng.Float64() < p {
			r.rooms[i] = r.randomDirt()
		}
	}
	return r, nil
}

// NewRowFromStatus creates a row with a fixed layout. cfg.Rooms is ignored.
func NewRowFromStatus(status environment.Status, cfg RowConfig) (*Row, error) {
	cfg.Rooms = len(status)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := newRow(cfg)
	for i, room := range status {
		if room.Index != i {
			return nil, fmt.Errorf("%w: room at position %d has index %d", ErrInvalidRow, i, room.Index)
		}
		if _, err := environment.NewRoomState(room.Index, room.Clean, room.Dirtiness); err != nil {
			return nil, err
		}
		r.rooms[i] = room.Dirtiness
	}
	return r, nil
}

func newRow(cfg RowConfig) *Row {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Row{
		rooms:   make([]environment.DirtinessLevel, cfg.Rooms),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed:    seed,
		redirty: cfg.redirty(),
	}
}

func (r *Row) randomDirt() environment.DirtinessLevel {
	levels := environment.DirtyLevels()
	return levels[r.rng.IntN(len(levels))]
}

// Seed returns the seed the row was built with.
func (r *Row) Seed() uint64 {
	return r.seed
}

// RoomCount returns the number of rooms.
func (r *Row) RoomCount() int {
	return len(r.rooms)
}

// RoomExists reports whether index addresses a room.
func (r *Row) RoomExists(index int) bool {
	return index >= 0 && index < len(r.rooms)
}

func (r *Row) room(index int) (environment.DirtinessLevel, error) {
	if !r.RoomExists(index) {
		return environment.Clean, fmt.Errorf("%w: %d", environment.ErrRoomNotFound, index)
	}
	return r.rooms[index], nil
}

// IsRoomClean reports whether the room is clean.
func (r *Row) IsRoomClean(index int) (bool, error) {
	level, err := r.room(index)
	if err != nil {
		return false, err
	}
	return !level.IsDirty(), nil
}

// DirtinessLevel returns the room's dirtiness tier.
func (r *Row) DirtinessLevel(index int) (environment.DirtinessLevel, error) {
	return r.room(index)
}

// SuckRoom cleans the room. Cleaning a clean room is a no-op.
func (r *Row) SuckRoom(index int) error {
	if _, err := r.room(index); err != nil {
		return err
	}
	r.rooms[index] = environment.Clean
	return nil
}

// RoomsStatus returns a snapshot of every room.
func (r *Row) RoomsStatus() environment.Status {
	status := make(environment.Status, len(r.rooms))
	for i, level := range r.rooms {
		status[i] = environment.DirtyRoom(i, level)
	}
	return status
}

// AllRoomsClean reports whether every room is clean.
func (r *Row) AllRoomsClean() bool {
	for _, level := range r.rooms {
		if level.IsDirty() {
			return false
		}
	}
	return true
}

// RedirtyCleanRooms dirties each clean room with the configured probability
// and returns the indices it dirtied.
func (r *Row) RedirtyCleanRooms() []int {
	var dirtied []int
	for i, level := range r.rooms {
		if level.IsDirty() {
			continue
		}
		if r.rng.Float64() < r.redirty {
			r.rooms[i] = r.randomDirt()
			dirtied = append(dirtied, i)
		}
	}
	return dirtied
}

// StatusLog renders the rooms, e.g. "[0:CLEAN 1:HIGH 2:LOW]".
func (r *Row) StatusLog() string {
	return r.RoomsStatus().String()
}

var _ environment.Environment = (*Row)(nil)
