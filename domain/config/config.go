// Package config provides domain models for simulation configuration.
package config

import "time"

// Defaults applied by Default and ApplyDefaults.
const (
	DefaultRooms                  = 2
	DefaultMaxSteps               = 10
	DefaultEnergyPerRoom          = 2.5
	DefaultMovingCost             = 1.0
	DefaultInitialDirtProbability = 0.5
	DefaultRedirtyProbability     = 0.2
	DefaultStorageBackend         = "memory"
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "console"
	DefaultTracingExporter        = "noop"
	DefaultPersistAttempts        = 3
	DefaultPersistDelay           = Duration(100 * time.Millisecond)
	DefaultPersistMultiplier      = 2.0
)

// SimulationConfig represents the complete simulation configuration.
type SimulationConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version" toml:"version"`
	// Description describes the scenario.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`

	// Simulation contains the environment and driver settings.
	Simulation SimulationSettings `json:"simulation" yaml:"simulation" toml:"simulation"`
	// Agent contains the cleaning agent settings.
	Agent AgentSettings `json:"agent" yaml:"agent" toml:"agent"`
	// Storage selects where finished reports are persisted.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty" toml:"storage,omitempty"`
	// Persistence configures retries around report persistence.
	Persistence PersistenceConfig `json:"persistence,omitempty" yaml:"persistence,omitempty" toml:"persistence,omitempty"`
	// Logging configures the logger.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty" toml:"logging,omitempty"`
	// Telemetry configures metrics and tracing.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty" toml:"telemetry,omitempty"`
}

// SimulationSettings contains environment and driver settings.
type SimulationSettings struct {
	// Rooms is the number of rooms in the row.
	Rooms int `json:"rooms" yaml:"rooms" toml:"rooms"`
	// MaxSteps is the number of timestamps to simulate.
	MaxSteps int `json:"max_steps" yaml:"max_steps" toml:"max_steps"`
	// Seed makes the environment reproducible. Zero picks a seed from the clock.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed,omitempty"`
	// InitialDirtProbability is the chance each room starts dirty.
	InitialDirtProbability *float64 `json:"initial_dirt_probability,omitempty" yaml:"initial_dirt_probability,omitempty" toml:"initial_dirt_probability,omitempty"`
	// RedirtyProbability is the chance a clean room gets dirty after each step.
	RedirtyProbability *float64 `json:"redirty_probability,omitempty" yaml:"redirty_probability,omitempty" toml:"redirty_probability,omitempty"`
}

// AgentSettings contains cleaning agent settings.
type AgentSettings struct {
	// EnergyPerRoom scales the initial energy: EnergyPerRoom × Rooms.
	EnergyPerRoom float64 `json:"energy_per_room,omitempty" yaml:"energy_per_room,omitempty" toml:"energy_per_room,omitempty"`
	// MovingCost is the energy one move costs.
	MovingCost float64 `json:"moving_cost,omitempty" yaml:"moving_cost,omitempty" toml:"moving_cost,omitempty"`
	// StartLocation is the index of the room the agent starts in.
	StartLocation int `json:"start_location,omitempty" yaml:"start_location,omitempty" toml:"start_location,omitempty"`
}

// StorageConfig selects the report store backend.
type StorageConfig struct {
	// Backend is memory, sqlite or badger.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty" toml:"backend,omitempty"`
	// DSN is the SQLite data source name.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" toml:"dsn,omitempty"`
	// Dir is the Badger data directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	// SQLite tunes the sqlite backend.
	SQLite SQLiteSettings `json:"sqlite,omitempty" yaml:"sqlite,omitempty" toml:"sqlite,omitempty"`
	// Badger tunes the badger backend.
	Badger BadgerSettings `json:"badger,omitempty" yaml:"badger,omitempty" toml:"badger,omitempty"`
}

// SQLiteSettings tunes the sqlite backend. Zero values keep the store defaults.
type SQLiteSettings struct {
	// JournalMode is the SQLite journal mode, e.g. WAL or DELETE.
	JournalMode string `json:"journal_mode,omitempty" yaml:"journal_mode,omitempty" toml:"journal_mode,omitempty"`
	// BusyTimeout is how long a write waits on a locked database.
	BusyTimeout Duration `json:"busy_timeout,omitempty" yaml:"busy_timeout,omitempty" toml:"busy_timeout,omitempty"`
	// MaxOpenConns caps the connection pool.
	MaxOpenConns int `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty" toml:"max_open_conns,omitempty"`
}

// BadgerSettings tunes the badger backend. Zero values keep the store defaults.
type BadgerSettings struct {
	// SyncWrites flushes every report to disk before Save returns.
	SyncWrites bool `json:"sync_writes,omitempty" yaml:"sync_writes,omitempty" toml:"sync_writes,omitempty"`
	// KeyPrefix namespaces report keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty" toml:"key_prefix,omitempty"`
	// GCInterval is how often value log GC runs.
	GCInterval Duration `json:"gc_interval,omitempty" yaml:"gc_interval,omitempty" toml:"gc_interval,omitempty"`
	// GCDiscardRatio is the stale fraction that triggers a value log rewrite.
	GCDiscardRatio float64 `json:"gc_discard_ratio,omitempty" yaml:"gc_discard_ratio,omitempty" toml:"gc_discard_ratio,omitempty"`
}

// PersistenceConfig configures retrying report persistence.
type PersistenceConfig struct {
	// MaxAttempts is the maximum number of save attempts.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty" toml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty" toml:"initial_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty" toml:"multiplier,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty"`
	// Format is console or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
}

// TelemetryConfig configures metrics and tracing.
type TelemetryConfig struct {
	// Metrics enables OpenTelemetry metrics.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty" toml:"metrics,omitempty"`
	// Tracing configures span export.
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty" toml:"tracing,omitempty"`
}

// TracingConfig configures span export.
type TracingConfig struct {
	// Exporter is noop, stdout or otlp.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty" toml:"exporter,omitempty"`
	// Endpoint is the OTLP collector address.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
	// Insecure disables TLS for the OTLP exporter.
	Insecure bool `json:"insecure,omitempty" yaml:"insecure,omitempty" toml:"insecure,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *SimulationConfig {
	cfg := &SimulationConfig{
		Name:    "iclean",
		Version: "1",
		Simulation: SimulationSettings{
			Rooms:    DefaultRooms,
			MaxSteps: DefaultMaxSteps,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset optional field with its default.
func (c *SimulationConfig) ApplyDefaults() {
	if c.Simulation.InitialDirtProbability == nil {
		p := DefaultInitialDirtProbability
		c.Simulation.InitialDirtProbability = &p
	}
	if c.Simulation.RedirtyProbability == nil {
		p := DefaultRedirtyProbability
		c.Simulation.RedirtyProbability = &p
	}
	if c.Agent.EnergyPerRoom == 0 {
		c.Agent.EnergyPerRoom = DefaultEnergyPerRoom
	}
	if c.Agent.MovingCost == 0 {
		c.Agent.MovingCost = DefaultMovingCost
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultStorageBackend
	}
	if c.Persistence.MaxAttempts == 0 {
		c.Persistence.MaxAttempts = DefaultPersistAttempts
	}
	if c.Persistence.InitialDelay == 0 {
		c.Persistence.InitialDelay = DefaultPersistDelay
	}
	if c.Persistence.Multiplier == 0 {
		c.Persistence.Multiplier = DefaultPersistMultiplier
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	if c.Telemetry.Tracing.Exporter == "" {
		c.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
}

// InitialEnergy returns the energy the agent starts with.
func (c *SimulationConfig) InitialEnergy() float64 {
	return c.Agent.EnergyPerRoom * float64(c.Simulation.Rooms)
}

// Duration is a time.Duration that supports JSON/YAML/TOML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler, used by the TOML codec.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by the TOML codec.
func (d *Duration) UnmarshalText(b []byte) error {
	dur, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
