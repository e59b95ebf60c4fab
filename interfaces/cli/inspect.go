package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/iclean/domain/config"
)

// inspectOptions holds options for the inspect command.
type inspectOptions struct {
	configPath string
	outputJSON bool
	section    string
}

// newInspectCmd creates the inspect command.
func (a *App) newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect configuration details",
		Long: `Inspect the configuration with every default filled in.

Sections:
  all          Show all configuration (default)
  simulation   Show rooms, timestamps and dirt probabilities
  agent        Show energy and movement settings
  storage      Show the report store and persistence retries
  telemetry    Show logging, metrics and tracing

Examples:
  # Inspect full configuration
  iclean inspect -c iclean.yaml

  # Inspect specific section
  iclean inspect -c iclean.yaml --section agent

  # Output as JSON
  iclean inspect -c iclean.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspectConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&opts.section, "section", "all", "Section to inspect (all, simulation, agent, storage, telemetry)")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// inspectConfig inspects the configuration.
func (a *App) inspectConfig(opts *inspectOptions) error {
	cfg, err := loadConfig(opts.configPath, true)
	if err != nil {
		return err
	}

	if opts.outputJSON {
		return a.inspectJSON(cfg, opts.section)
	}

	return a.inspectText(cfg, opts.section)
}

// inspectJSON outputs configuration as JSON.
func (a *App) inspectJSON(cfg *config.SimulationConfig, section string) error {
	var output any

	switch section {
	case "all":
		output = cfg
	case "simulation":
		output = cfg.Simulation
	case "agent":
		output = cfg.Agent
	case "storage":
		output = map[string]any{
			"storage":     cfg.Storage,
			"persistence": cfg.Persistence,
		}
	case "telemetry":
		output = map[string]any{
			"logging":   cfg.Logging,
			"telemetry": cfg.Telemetry,
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return writeJSON(a.stdout, output)
}

// inspectText outputs configuration as formatted text.
func (a *App) inspectText(cfg *config.SimulationConfig, section string) error {
	switch section {
	case "all":
		a.printHeader(cfg)
		a.printSimulationSection(cfg)
		a.printAgentSection(cfg)
		a.printStorageSection(cfg)
		a.printTelemetrySection(cfg)
	case "simulation":
		a.printSimulationSection(cfg)
	case "agent":
		a.printAgentSection(cfg)
	case "storage":
		a.printStorageSection(cfg)
	case "telemetry":
		a.printTelemetrySection(cfg)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return nil
}

func (a *App) printHeader(cfg *config.SimulationConfig) {
	_, _ = fmt.Fprintf(a.stdout, "Simulation Configuration: %s\n", cfg.Name)
	_, _ = fmt.Fprintf(a.stdout, "═══════════════════════════════════════\n")
	_, _ = fmt.Fprintf(a.stdout, "Version: %s\n", cfg.Version)
	if cfg.Description != "" {
		_, _ = fmt.Fprintf(a.stdout, "Description: %s\n", cfg.Description)
	}
	_, _ = fmt.Fprintln(a.stdout)
}

func (a *App) printSimulationSection(cfg *config.SimulationConfig) {
	sim := cfg.Simulation
	_, _ = fmt.Fprintf(a.stdout, "Simulation\n")
	_, _ = fmt.Fprintf(a.stdout, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(a.stdout, "  Rooms: %d\n", sim.Rooms)
	_, _ = fmt.Fprintf(a.stdout, "  Max Timestamps: %d\n", sim.MaxSteps)
	if sim.Seed != 0 {
		_, _ = fmt.Fprintf(a.stdout, "  Seed: %d\n", sim.Seed)
	} else {
		_, _ = fmt.Fprintf(a.stdout, "  Seed: random\n")
	}
	if sim.InitialDirtProbability != nil {
		_, _ = fmt.Fprintf(a.stdout, "  Initial Dirt Probability: %.2f\n", *sim.InitialDirtProbability)
	}
	if sim.RedirtyProbability != nil {
		_, _ = fmt.Fprintf(a.stdout, "  Redirty Probability: %.2f\n", *sim.RedirtyProbability)
	}
	_, _ = fmt.Fprintln(a.stdout)
}

func (a *App) printAgentSection(cfg *config.SimulationConfig) {
	_, _ = fmt.Fprintf(a.stdout, "Agent\n")
	_, _ = fmt.Fprintf(a.stdout, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(a.stdout, "  Energy Per Room: %s\n", formatEnergy(cfg.Agent.EnergyPerRoom))
	_, _ = fmt.Fprintf(a.stdout, "  Initial Energy: %s\n", formatEnergy(cfg.InitialEnergy()))
	_, _ = fmt.Fprintf(a.stdout, "  Moving Cost: %s\n", formatEnergy(cfg.Agent.MovingCost))
	_, _ = fmt.Fprintf(a.stdout, "  Start Location: %d\n", cfg.Agent.StartLocation)
	_, _ = fmt.Fprintln(a.stdout)
}

func (a *App) printStorageSection(cfg *config.SimulationConfig) {
	_, _ = fmt.Fprintf(a.stdout, "Storage\n")
	_, _ = fmt.Fprintf(a.stdout, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(a.stdout, "  Backend: %s\n", cfg.Storage.Backend)
	if cfg.Storage.DSN != "" {
		_, _ = fmt.Fprintf(a.stdout, "  DSN: %s\n", cfg.Storage.DSN)
	}
	if cfg.Storage.Dir != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Dir: %s\n", cfg.Storage.Dir)
	}
	if sq := cfg.Storage.SQLite; cfg.Storage.Backend == "sqlite" && sq.JournalMode != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Journal Mode: %s\n", sq.JournalMode)
	}
	if bd := cfg.Storage.Badger; cfg.Storage.Backend == "badger" && bd.KeyPrefix != "" {
		_, _ = fmt.Fprintf(a.stdout, "  Key Prefix: %s\n", bd.KeyPrefix)
	}
	_, _ = fmt.Fprintf(a.stdout, "  Retry:\n")
	_, _ = fmt.Fprintf(a.stdout, "    Max Attempts: %d\n", cfg.Persistence.MaxAttempts)
	_, _ = fmt.Fprintf(a.stdout, "    Initial Delay: %s\n", cfg.Persistence.InitialDelay.Duration())
	_, _ = fmt.Fprintf(a.stdout, "    Multiplier: %.1f\n", cfg.Persistence.Multiplier)
	_, _ = fmt.Fprintln(a.stdout)
}

func (a *App) printTelemetrySection(cfg *config.SimulationConfig) {
	_, _ = fmt.Fprintf(a.stdout, "Telemetry\n")
	_, _ = fmt.Fprintf(a.stdout, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintf(a.stdout, "  Log Level: %s\n", cfg.Logging.Level)
	_, _ = fmt.Fprintf(a.stdout, "  Log Format: %s\n", cfg.Logging.Format)
	if cfg.Telemetry.Metrics {
		_, _ = fmt.Fprintf(a.stdout, "  Metrics: enabled\n")
	} else {
		_, _ = fmt.Fprintf(a.stdout, "  Metrics: disabled\n")
	}
	tr := cfg.Telemetry.Tracing
	_, _ = fmt.Fprintf(a.stdout, "  Tracing: %s\n", tr.Exporter)
	if tr.Endpoint != "" {
		_, _ = fmt.Fprintf(a.stdout, "    Endpoint: %s\n", tr.Endpoint)
		_, _ = fmt.Fprintf(a.stdout, "    Insecure: %t\n", tr.Insecure)
	}
	_, _ = fmt.Fprintln(a.stdout)
}
