package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/iclean/application"
	"github.com/felixgeelhaar/iclean/domain/config"
	infraconfig "github.com/felixgeelhaar/iclean/infrastructure/config"
	"github.com/felixgeelhaar/iclean/infrastructure/logging"
	"github.com/felixgeelhaar/iclean/infrastructure/observability"
	"github.com/felixgeelhaar/iclean/infrastructure/storage"
	"github.com/felixgeelhaar/iclean/infrastructure/telemetry"
	"github.com/felixgeelhaar/iclean/infrastructure/world"
)

// defaultCLILogLevel keeps per-step logs off the terminal unless asked for.
const defaultCLILogLevel = "warn"

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	rooms      int
	maxSteps   int
	seed       uint64
	store      string
	dsn        string
	dir        string
	logLevel   string
	timeout    time.Duration
	verbose    bool
	jsonOutput bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a cleaning simulation",
		Long: `Run a cleaning simulation in a row of rooms.

The number of rooms and the maximum number of timestamps come from flags or
the configuration file. Whatever is missing is asked for on stdin. Entering
0 timestamps exits without simulating.

Examples:
  # Ask for rooms and timestamps interactively
  iclean run

  # Reproducible run with 5 rooms and 20 timestamps
  iclean run --rooms 5 --max-steps 20 --seed 42

  # Run from a configuration file and keep the report in SQLite
  iclean run -c iclean.yaml --store sqlite --dsn file:reports.db

  # Machine-readable report
  iclean run --rooms 3 --max-steps 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSimulation(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.rooms, "rooms", 0, "Number of rooms (overrides config)")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "Maximum number of timestamps (overrides config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (overrides config, 0 picks one)")
	cmd.Flags().StringVar(&opts.store, "store", "", "Report store: memory, sqlite or badger (overrides config)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "SQLite data source name")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Badger data directory")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", defaultCLILogLevel, "Log level: trace, debug, info, warn or error")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Stop the simulation after this long")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON")

	return cmd
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string, validate bool) (*config.SimulationConfig, error) {
	if path == "" {
		cfg := &config.SimulationConfig{Name: "iclean", Version: "1"}
		cfg.ApplyDefaults()
		return cfg, nil
	}

	loader := infraconfig.NewLoaderWithOptions(infraconfig.WithValidation(validate))
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// applyStorageFlags overrides the storage section with flags that were set.
func applyStorageFlags(cmd *cobra.Command, cfg *config.SimulationConfig, backend, dsn, dir string) {
	if cmd.Flags().Changed("store") {
		cfg.Storage.Backend = backend
	}
	if cmd.Flags().Changed("dsn") {
		cfg.Storage.DSN = dsn
	}
	if cmd.Flags().Changed("dir") {
		cfg.Storage.Dir = dir
	}
}

// runSimulation resolves the parameters, runs one simulation and prints it.
func (a *App) runSimulation(cmd *cobra.Command, opts *runOptions) error {
	ctx := cmd.Context()

	// Rooms and max steps may still be missing; they are validated after
	// prompting.
	cfg, err := loadConfig(opts.configPath, false)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("rooms") {
		cfg.Simulation.Rooms = opts.rooms
	}
	if flags.Changed("max-steps") {
		cfg.Simulation.MaxSteps = opts.maxSteps
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = opts.seed
	}
	if opts.configPath == "" || flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	applyStorageFlags(cmd, cfg, opts.store, opts.dsn, opts.dir)

	promptOut := a.stdout
	if opts.jsonOutput {
		promptOut = a.stderr
	}
	p := newPrompter(a.stdin, promptOut)

	if cfg.Simulation.Rooms < 1 {
		n, _, err := p.askNumber(roomsPrompt, 1)
		if err != nil {
			return err
		}
		cfg.Simulation.Rooms = n
	}

	digits := len(strconv.Itoa(cfg.Simulation.MaxSteps))
	if cfg.Simulation.MaxSteps < 1 {
		n, typed, err := p.askNumber(maxStepsPrompt, 0)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(promptOut, "\n%s\n", exitOnZeroT)
			return nil
		}
		cfg.Simulation.MaxSteps = n
		digits = len(typed)
	}

	if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
		return fmt.Errorf("%w: %w", config.ErrValidationFailed, errs)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: a.stderr,
	})

	provider, err := newObservability(ctx, cfg, a.stderr)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("telemetry shutdown failed")
		}
	}()
	provider.SetGlobal()

	var recorder telemetry.Recorder = telemetry.NoopRecorder{}
	if cfg.Telemetry.Metrics {
		metrics := telemetry.NewMetricsProvider(telemetry.MetricsConfig{
			MeterVersion:  Version,
			MeterProvider: provider.MeterProvider(),
		})
		if err := metrics.Error(); err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
		recorder = metrics
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Add(logging.ErrorField(err)).Msg("report store close failed")
		}
	}()

	row, err := world.NewRow(world.RowConfig{
		Rooms:                  cfg.Simulation.Rooms,
		Seed:                   cfg.Simulation.Seed,
		InitialDirtProbability: cfg.Simulation.InitialDirtProbability,
		RedirtyProbability:     cfg.Simulation.RedirtyProbability,
	})
	if err != nil {
		return fmt.Errorf("failed to build rooms: %w", err)
	}

	out := newRenderer(a.stdout, digits)
	simCfg := application.SimulatorConfig{
		Environment: row,
		MaxSteps:    cfg.Simulation.MaxSteps,
		Seed:        row.Seed(),
		AgentOptions: []application.AgentOption{
			application.WithEnergyPerRoom(cfg.Agent.EnergyPerRoom),
			application.WithMovingCost(cfg.Agent.MovingCost),
			application.WithStartLocation(cfg.Agent.StartLocation),
		},
		Store:   store,
		Metrics: recorder,
		Tracer:  provider.Tracer(observability.TracerName),
	}
	if !opts.jsonOutput {
		simCfg.OnStep = out.Step
	}

	sim, err := application.NewSimulator(simCfg)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	if opts.verbose && !opts.jsonOutput {
		a.printRunHeader(cfg, sim.ID(), row)
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	report, runErr := sim.Run(ctx)
	if report == nil {
		return fmt.Errorf("simulation failed: %w", runErr)
	}

	if opts.jsonOutput {
		if err := writeJSON(a.stdout, report); err != nil {
			return errors.Join(runErr, err)
		}
		return runErr
	}

	if report.StepsExecuted == 0 {
		// No step ran, so no step block carried the stop notices.
		out.Stop(report.StopReasons)
	}
	out.Summary(report)

	if opts.verbose {
		fmt.Fprintf(a.stdout, "\nReport %s saved to %s store\n", report.ID, cfg.Storage.Backend)
	}

	return runErr
}

func (a *App) printRunHeader(cfg *config.SimulationConfig, id string, row *world.Row) {
	fmt.Fprintf(a.stdout, "Configuration: %s v%s\n", cfg.Name, cfg.Version)
	fmt.Fprintf(a.stdout, "Simulation ID: %s\n", id)
	fmt.Fprintf(a.stdout, "Rooms: %d\n", cfg.Simulation.Rooms)
	fmt.Fprintf(a.stdout, "Max timestamps: %d\n", cfg.Simulation.MaxSteps)
	fmt.Fprintf(a.stdout, "Seed: %d\n", row.Seed())
	fmt.Fprintf(a.stdout, "Initial energy: %s\n", formatEnergy(cfg.InitialEnergy()))
	fmt.Fprintf(a.stdout, "Initial rooms state: %s\n", row.StatusLog())
}

// newObservability builds the tracing and metrics providers described by cfg.
// Stdout traces go to w so they never mix with the transcript.
func newObservability(ctx context.Context, cfg *config.SimulationConfig, w io.Writer) (*observability.Provider, error) {
	opts := []observability.Option{
		observability.WithServiceName(cfg.Name),
		observability.WithServiceVersion(Version),
	}

	tr := cfg.Telemetry.Tracing
	switch tr.Exporter {
	case string(observability.ExporterStdout):
		opts = append(opts, observability.WithStdoutTracing(w))
	case string(observability.ExporterOTLP):
		opts = append(opts, observability.WithTracing(observability.ExporterOTLP, tr.Endpoint))
		if tr.Insecure {
			opts = append(opts, observability.WithTracingInsecure())
		}
	}

	if cfg.Telemetry.Metrics {
		if tr.Exporter == string(observability.ExporterOTLP) {
			opts = append(opts, observability.WithMetrics(observability.ExporterOTLP, tr.Endpoint))
			if tr.Insecure {
				opts = append(opts, observability.WithMetricsInsecure())
			}
		} else {
			opts = append(opts, observability.WithMetrics(observability.ExporterNoop, ""))
		}
	}

	return observability.New(ctx, opts...)
}
