package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Common field constructors for simulation logging.

// SimulationID adds a simulation ID field.
func SimulationID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("simulation_id", id)
	}
}

// Timestamp adds the simulation step field.
func Timestamp(step int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("timestamp", step)
	}
}

// Action adds an action field.
func Action(a agent.Action) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", string(a))
	}
}

// Room adds a room field rendered as "index:LEVEL".
func Room(r environment.RoomState) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("room", r.String())
	}
}

// Location adds the agent location field.
func Location(index int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("location", index)
	}
}

// Energy adds remaining and consumed energy fields.
func Energy(s agent.EnergySnapshot) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("energy", formatFloat(s.Level)).Str("energy_consumed", formatFloat(s.Consumed))
	}
}

// RunningState adds a running state field.
func RunningState(s agent.RunningState) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("running_state", string(s))
	}
}

// StopReason adds a stop reason field.
func StopReason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("stop_reason", reason)
	}
}

// Dirtiness adds a dirtiness level field.
func Dirtiness(d environment.DirtinessLevel) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("dirtiness", d.String())
	}
}

// Rooms adds the rendered rooms status.
func Rooms(status string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("rooms", status)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Reason adds a reason field.
func Reason(reason string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("reason", reason)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an integer field with custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}

// Float adds a float field with custom key.
func Float(key string, value float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, formatFloat(value))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
