package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *SimulationConfig {
	return Default()
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*SimulationConfig)
		wantPath string
	}{
		{"missing name", func(c *SimulationConfig) { c.Name = "" }, "name"},
		{"missing version", func(c *SimulationConfig) { c.Version = "" }, "version"},
		{"zero rooms", func(c *SimulationConfig) { c.Simulation.Rooms = 0 }, "simulation.rooms"},
		{"zero max steps", func(c *SimulationConfig) { c.Simulation.MaxSteps = 0 }, "simulation.max_steps"},
		{"probability above one", func(c *SimulationConfig) {
			p := 1.5
			c.Simulation.RedirtyProbability = &p
		}, "simulation.redirty_probability"},
		{"negative probability", func(c *SimulationConfig) {
			p := -0.1
			c.Simulation.InitialDirtProbability = &p
		}, "simulation.initial_dirt_probability"},
		{"negative energy", func(c *SimulationConfig) { c.Agent.EnergyPerRoom = -1 }, "agent.energy_per_room"},
		{"negative moving cost", func(c *SimulationConfig) { c.Agent.MovingCost = -1 }, "agent.moving_cost"},
		{"start outside row", func(c *SimulationConfig) { c.Agent.StartLocation = 2 }, "agent.start_location"},
		{"negative start", func(c *SimulationConfig) { c.Agent.StartLocation = -1 }, "agent.start_location"},
		{"unknown backend", func(c *SimulationConfig) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"badger without dir", func(c *SimulationConfig) { c.Storage.Backend = "badger" }, "storage.dir"},
		{"unknown journal mode", func(c *SimulationConfig) {
			c.Storage.Backend = "sqlite"
			c.Storage.SQLite.JournalMode = "fast"
		}, "storage.sqlite.journal_mode"},
		{"negative busy timeout", func(c *SimulationConfig) {
			c.Storage.Backend = "sqlite"
			c.Storage.SQLite.BusyTimeout = -1
		}, "storage.sqlite.busy_timeout"},
		{"negative pool size", func(c *SimulationConfig) {
			c.Storage.Backend = "sqlite"
			c.Storage.SQLite.MaxOpenConns = -1
		}, "storage.sqlite.max_open_conns"},
		{"discard ratio of one", func(c *SimulationConfig) {
			c.Storage = StorageConfig{Backend: "badger", Dir: "/tmp/reports", Badger: BadgerSettings{GCDiscardRatio: 1}}
		}, "storage.badger.gc_discard_ratio"},
		{"negative gc interval", func(c *SimulationConfig) {
			c.Storage = StorageConfig{Backend: "badger", Dir: "/tmp/reports", Badger: BadgerSettings{GCInterval: -1}}
		}, "storage.badger.gc_interval"},
		{"multiplier below one", func(c *SimulationConfig) { c.Persistence.Multiplier = 0.5 }, "persistence.multiplier"},
		{"unknown log level", func(c *SimulationConfig) { c.Logging.Level = "loud" }, "logging.level"},
		{"unknown log format", func(c *SimulationConfig) { c.Logging.Format = "xml" }, "logging.format"},
		{"unknown exporter", func(c *SimulationConfig) { c.Telemetry.Tracing.Exporter = "jaeger" }, "telemetry.tracing.exporter"},
		{"otlp without endpoint", func(c *SimulationConfig) { c.Telemetry.Tracing.Exporter = "otlp" }, "telemetry.tracing.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			errs := NewValidator().Validate(cfg)
			if !errs.HasErrors() {
				t.Fatal("Validate() returned no errors")
			}

			found := false
			for _, e := range errs {
				if e.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want one at %s", errs, tt.wantPath)
			}
		})
	}
}

func TestValidator_AcceptsValid(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Storage = StorageConfig{Backend: "badger", Dir: "/tmp/reports"}
	cfg.Telemetry.Tracing = TracingConfig{Exporter: "otlp", Endpoint: "localhost:4317"}
	cfg.Logging.Level = "DEBUG"

	if errs := NewValidator().Validate(cfg); errs.HasErrors() {
		t.Errorf("Validate() errors = %v", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	if got := (ValidationErrors{}).Error(); got != "no validation errors" {
		t.Errorf("Error() = %q", got)
	}

	one := ValidationErrors{{Path: "a", Message: "bad"}}
	if got := one.Error(); got != "a: bad" {
		t.Errorf("Error() = %q, want a: bad", got)
	}

	two := ValidationErrors{{Path: "a", Message: "bad"}, {Message: "worse"}}
	if got := two.Error(); !strings.HasPrefix(got, "2 validation errors") || !strings.Contains(got, "worse") {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidator_AcceptsStorageTuning(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Storage = StorageConfig{
		Backend: "sqlite",
		SQLite:  SQLiteSettings{JournalMode: "wal", BusyTimeout: Duration(time.Second), MaxOpenConns: 4},
		Badger:  BadgerSettings{GCInterval: Duration(time.Minute), GCDiscardRatio: 0.7},
	}

	if errs := NewValidator().Validate(cfg); errs.HasErrors() {
		t.Errorf("Validate() errors = %v", errs)
	}
}
