package agent

// History is the append-only sequence of actions the agent has completed.
type History struct {
	actions []Action
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{actions: make([]Action, 0)}
}

// Append records a completed action.
func (h *History) Append(a Action) {
	h.actions = append(h.actions, a)
}

// Actions returns a copy of the recorded actions, oldest first.
func (h *History) Actions() []Action {
	out := make([]Action, len(h.actions))
	copy(out, h.actions)
	return out
}

// Len returns the number of recorded actions.
func (h *History) Len() int {
	return len(h.actions)
}

// Last returns the most recent action and whether there was one.
func (h *History) Last() (Action, bool) {
	if len(h.actions) == 0 {
		return "", false
	}
	return h.actions[len(h.actions)-1], true
}

// Count returns how many times a was recorded.
func (h *History) Count(a Action) int {
	n := 0
	for _, got := range h.actions {
		if got == a {
			n++
		}
	}
	return n
}
