package agent

// Affordability answers whether a cost can be paid. *Energy implements it.
type Affordability interface {
	CanAfford(cost float64) bool
}

// Policy maps a perceived state to exactly one decision.
type Policy interface {
	Decide(state PerceivedState, energy Affordability) Decision
}

// ReflexPolicy is the fixed-priority rule list: clean where you stand, then
// explore right, then backtrack left, then shut down. Every rule except
// shutdown is gated on affordability.
type ReflexPolicy struct {
	// MovingCost is the energy a move costs. Zero means MovingCost.
	MovingCost float64
}

// NewReflexPolicy creates a reflex policy with the default moving cost.
func NewReflexPolicy() *ReflexPolicy {
	return &ReflexPolicy{MovingCost: MovingCost}
}

// Decide evaluates the rules in priority order; the first match wins.
func (p *ReflexPolicy) Decide(state PerceivedState, energy Affordability) Decision {
	room := state.CurrentRoom
	moveCost := p.moveCost()

	if !room.Clean && energy.CanAfford(room.Dirtiness.Cost()) {
		return NewSuckDecision(room)
	}

	if state.RoomExists(room.Index+1) && energy.CanAfford(moveCost) {
		return NewMoveDecision(room, ActionMoveRight)
	}

	if state.RoomExists(room.Index-1) && energy.CanAfford(moveCost) {
		return NewMoveDecision(room, ActionMoveLeft)
	}

	return NewShutdownDecision(room, "no affordable action")
}

func (p *ReflexPolicy) moveCost() float64 {
	if p.MovingCost <= 0 {
		return MovingCost
	}
	return p.MovingCost
}

var _ Policy = (*ReflexPolicy)(nil)
