package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

var (
	validBackends  = map[string]bool{"memory": true, "sqlite": true, "badger": true}
	validLogLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validFormats   = map[string]bool{"console": true, "json": true}
	validExporters = map[string]bool{"noop": true, "stdout": true, "otlp": true}

	validJournalModes = map[string]bool{"DELETE": true, "TRUNCATE": true, "PERSIST": true, "MEMORY": true, "WAL": true, "OFF": true}
)

// Validator validates simulation configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
// Optional fields left empty are accepted; ApplyDefaults fills them.
func (v *Validator) Validate(config *SimulationConfig) ValidationErrors {
	v.errors = nil

	v.validateRequired(config)
	v.validateSimulation(config)
	v.validateAgent(config)
	v.validateStorage(config)
	v.validatePersistence(config)
	v.validateLogging(config)
	v.validateTelemetry(config)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateRequired(config *SimulationConfig) {
	if config.Name == "" {
		v.addError("name", "name is required")
	}
	if config.Version == "" {
		v.addError("version", "version is required")
	}
}

func (v *Validator) validateSimulation(config *SimulationConfig) {
	sim := config.Simulation
	if sim.Rooms < 1 {
		v.addError("simulation.rooms", "rooms must be at least 1")
	}
	if sim.MaxSteps < 1 {
		v.addError("simulation.max_steps", "max_steps must be at least 1")
	}
	v.validateProbability("simulation.initial_dirt_probability", sim.InitialDirtProbability)
	v.validateProbability("simulation.redirty_probability", sim.RedirtyProbability)
}

func (v *Validator) validateProbability(path string, p *float64) {
	if p == nil {
		return
	}
	if *p < 0 || *p > 1 {
		v.addError(path, fmt.Sprintf("probability must be within [0, 1], got %v", *p))
	}
}

func (v *Validator) validateAgent(config *SimulationConfig) {
	if config.Agent.EnergyPerRoom < 0 {
		v.addError("agent.energy_per_room", "energy_per_room must be positive")
	}
	if config.Agent.MovingCost < 0 {
		v.addError("agent.moving_cost", "moving_cost must be positive")
	}
	loc := config.Agent.StartLocation
	if loc < 0 || (config.Simulation.Rooms > 0 && loc >= config.Simulation.Rooms) {
		v.addError("agent.start_location", fmt.Sprintf("start_location %d is outside the row", loc))
	}
}

func (v *Validator) validateStorage(config *SimulationConfig) {
	backend := config.Storage.Backend
	if backend == "" {
		return
	}
	if !validBackends[backend] {
		v.addError("storage.backend", fmt.Sprintf("unknown backend: %s", backend))
		return
	}
	if backend == "badger" && config.Storage.Dir == "" {
		v.addError("storage.dir", "dir is required for badger backend")
	}

	sq := config.Storage.SQLite
	if sq.JournalMode != "" && !validJournalModes[strings.ToUpper(sq.JournalMode)] {
		v.addError("storage.sqlite.journal_mode", fmt.Sprintf("unknown journal mode: %s", sq.JournalMode))
	}
	if sq.BusyTimeout < 0 {
		v.addError("storage.sqlite.busy_timeout", "busy_timeout must be non-negative")
	}
	if sq.MaxOpenConns < 0 {
		v.addError("storage.sqlite.max_open_conns", "max_open_conns must be non-negative")
	}

	bd := config.Storage.Badger
	if bd.GCInterval < 0 {
		v.addError("storage.badger.gc_interval", "gc_interval must be non-negative")
	}
	if bd.GCDiscardRatio < 0 || bd.GCDiscardRatio >= 1 {
		v.addError("storage.badger.gc_discard_ratio", "gc_discard_ratio must be in [0, 1)")
	}
}

func (v *Validator) validatePersistence(config *SimulationConfig) {
	p := config.Persistence
	if p.MaxAttempts < 0 {
		v.addError("persistence.max_attempts", "max_attempts must be non-negative")
	}
	if p.InitialDelay < 0 {
		v.addError("persistence.initial_delay", "initial_delay must be non-negative")
	}
	if p.Multiplier != 0 && p.Multiplier < 1 {
		v.addError("persistence.multiplier", "multiplier must be at least 1")
	}
}

func (v *Validator) validateLogging(config *SimulationConfig) {
	if lvl := config.Logging.Level; lvl != "" && !validLogLevels[strings.ToLower(lvl)] {
		v.addError("logging.level", fmt.Sprintf("invalid level: %s", lvl))
	}
	if f := config.Logging.Format; f != "" && !validFormats[f] {
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", f))
	}
}

func (v *Validator) validateTelemetry(config *SimulationConfig) {
	tr := config.Telemetry.Tracing
	if tr.Exporter != "" && !validExporters[tr.Exporter] {
		v.addError("telemetry.tracing.exporter", fmt.Sprintf("unknown exporter: %s", tr.Exporter))
	}
	if tr.Exporter == "otlp" && tr.Endpoint == "" {
		v.addError("telemetry.tracing.endpoint", "endpoint is required for otlp exporter")
	}
}
