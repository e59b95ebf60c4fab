package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/iclean/domain/agent"
	"github.com/felixgeelhaar/iclean/domain/environment"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
	if ProductionConfig().Format != "json" {
		t.Errorf("ProductionConfig().Format = %s, want json", ProductionConfig().Format)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"INFO", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"simulation id", SimulationID("sim-1"), `"simulation_id":"sim-1"`},
		{"timestamp", Timestamp(3), `"timestamp":3`},
		{"action", Action(agent.ActionMoveRight), `"action":"MOVE_RIGHT"`},
		{"room", Room(environment.DirtyRoom(1, environment.High)), `"room":"1:HIGH"`},
		{"location", Location(2), `"location":2`},
		{"energy", Energy(agent.EnergySnapshot{Level: 5.5, Consumed: 2}), `"energy":"5.5"`},
		{"running state", RunningState(agent.RunningOff), `"running_state":"OFF"`},
		{"stop reason", StopReason("agent_off"), `"stop_reason":"agent_off"`},
		{"dirtiness", Dirtiness(environment.Low), `"dirtiness":"LOW"`},
		{"rooms", Rooms("[0:CLEAN]"), `"rooms":"[0:CLEAN]"`},
		{"duration", Duration(1500 * time.Millisecond), `"duration_ms":1500`},
		{"reason", Reason("no affordable action"), `"reason":"no affordable action"`},
		{"component", Component("simulator"), `"component":"simulator"`},
		{"str", Str("key", "value"), `"key":"value"`},
		{"int", Int("count", 4), `"count":4`},
		{"float", Float("ratio", 0.25), `"ratio":"0.25"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestEnergyField_IncludesConsumed(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	Energy(agent.EnergySnapshot{Level: 1, Consumed: 6.5})(logger.Info()).Msg("test")

	if !strings.Contains(buf.String(), `"energy_consumed":"6.5"`) {
		t.Errorf("expected energy_consumed field in output: %s", buf.String())
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	t.Run("with error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(errors.New("room does not exist"))(logger.Error()).Msg("test")

		if !strings.Contains(buf.String(), "room does not exist") {
			t.Errorf("expected error in output: %s", buf.String())
		}
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		ErrorField(nil)(logger.Info()).Msg("test")

		if strings.Contains(buf.String(), `"error"`) {
			t.Errorf("nil error should add no field: %s", buf.String())
		}
	})
}

func TestLogEvent(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()

	NewEvent(logger.Info()).
		Add(SimulationID("sim-1")).
		Add(Action(agent.ActionSuck)).
		Msg("acted")

	out := buf.String()
	if !strings.Contains(out, `"simulation_id":"sim-1"`) || !strings.Contains(out, `"action":"SUCK"`) {
		t.Errorf("expected chained fields in output: %s", out)
	}

	buf.Reset()
	NewEvent(logger.Info()).Add(Location(1)).Send()
	if !strings.Contains(buf.String(), `"location":1`) {
		t.Errorf("expected location field in output: %s", buf.String())
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Format: "json", Output: buf})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info message should be filtered: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn message should be written: %s", buf.String())
	}
}

// The default logger is process-wide, so these subtests do not run in parallel.
func TestDefaultLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Config{Level: "debug", Format: "json", Output: buf})
	defer Init(Config{Level: "error", Format: "json", Output: &bytes.Buffer{}})

	if Get() == nil {
		t.Fatal("Get() returned nil")
	}

	Debug().Add(Component("test")).Msg("debug message")
	Info().Msg("info message")
	Warn().Msg("warn message")
	Error().Msg("error message")
	Trace().Msg("trace message")

	out := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output: %s", want, out)
		}
	}
	if strings.Contains(out, "trace message") {
		t.Errorf("trace message should be filtered at debug level: %s", out)
	}

	buf.Reset()
	SetLevel("error")
	Info().Msg("after level change")
	if strings.Contains(buf.String(), "after level change") {
		t.Errorf("info should be filtered after SetLevel(error): %s", buf.String())
	}
}
