package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/iclean/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a simulation configuration file for correctness.

This command checks:
  - File format (YAML, JSON or TOML)
  - Required fields (name, version, rooms, max_steps)
  - Probabilities, energy and movement costs
  - Storage backend, logging and tracing settings
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  iclean validate -c iclean.yaml

  # Strict validation (fail on missing env vars)
  iclean validate -c iclean.toml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loaderOpts := []infraconfig.LoaderOption{
		infraconfig.WithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, infraconfig.WithStrictEnv(true))
	}

	loader := infraconfig.NewLoaderWithOptions(loaderOpts...)
	cfg, err := loader.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	if cfg.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", cfg.Description)
	}

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Rooms: %d\n", cfg.Simulation.Rooms)
	fmt.Fprintf(a.stdout, "  Max timestamps: %d\n", cfg.Simulation.MaxSteps)
	fmt.Fprintf(a.stdout, "  Initial energy: %s\n", formatEnergy(cfg.InitialEnergy()))
	fmt.Fprintf(a.stdout, "  Storage: %s\n", cfg.Storage.Backend)

	if cfg.Telemetry.Metrics {
		fmt.Fprintf(a.stdout, "  Metrics: enabled\n")
	}
	if exp := cfg.Telemetry.Tracing.Exporter; exp != "noop" {
		fmt.Fprintf(a.stdout, "  Tracing: %s\n", exp)
	}

	return nil
}
