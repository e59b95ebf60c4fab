package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/storage"
)

// historyOptions holds options shared by the history subcommands.
type historyOptions struct {
	configPath string
	store      string
	dsn        string
	dir        string
	jsonOutput bool

	limit      int
	offset     int
	stopReason string
}

// newHistoryCmd creates the history command and its subcommands.
func (a *App) newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse persisted simulation reports",
		Long: `Browse reports saved by earlier runs.

Reports are only kept across runs by the sqlite and badger stores.

Examples:
  # List the ten most recent reports
  iclean history list --store sqlite --dsn file:reports.db --limit 10

  # Only runs where the agent ran out of energy
  iclean history list --store sqlite --dsn file:reports.db --stop-reason agent_off

  # Show one report
  iclean history show 3f1c... --store badger --dir ./reports`,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	pf.StringVar(&opts.store, "store", "", "Report store: memory, sqlite or badger (overrides config)")
	pf.StringVar(&opts.dsn, "dsn", "", "SQLite data source name")
	pf.StringVar(&opts.dir, "dir", "", "Badger data directory")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")

	list := &cobra.Command{
		Use:   "list",
		Short: "List reports, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, opts, func(ctx context.Context, store simulation.Store) error {
				return a.listReports(ctx, store, opts)
			})
		},
	}
	list.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of reports (0 for all)")
	list.Flags().IntVar(&opts.offset, "offset", 0, "Number of reports to skip")
	list.Flags().StringVar(&opts.stopReason, "stop-reason", "", "Only reports stopped for this reason (agent_off, all_clean, max_steps, canceled)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, opts, func(ctx context.Context, store simulation.Store) error {
				return a.showReport(ctx, store, args[0], opts.jsonOutput)
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, opts, func(ctx context.Context, store simulation.Store) error {
				if err := store.Delete(ctx, args[0]); err != nil {
					return fmt.Errorf("failed to delete report: %w", err)
				}
				fmt.Fprintf(a.stdout, "Deleted report %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

// withStore opens the configured report store for the duration of fn.
func (a *App) withStore(cmd *cobra.Command, opts *historyOptions, fn func(context.Context, simulation.Store) error) error {
	cfg, err := loadConfig(opts.configPath, false)
	if err != nil {
		return err
	}
	applyStorageFlags(cmd, cfg, opts.store, opts.dsn, opts.dir)

	if cfg.Storage.Backend == storage.BackendBadger && cfg.Storage.Dir == "" {
		return errors.New("badger store needs a directory (--dir)")
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}

	return errors.Join(fn(cmd.Context(), store), store.Close())
}

func (a *App) listReports(ctx context.Context, store simulation.Store, opts *historyOptions) error {
	filter := simulation.ListFilter{
		StopReason: simulation.StopReason(opts.stopReason),
		Limit:      opts.limit,
		Offset:     opts.offset,
	}
	if filter.StopReason != "" && !filter.StopReason.IsValid() {
		return fmt.Errorf("unknown stop reason: %s", opts.stopReason)
	}

	reports, err := store.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if opts.jsonOutput {
		if reports == nil {
			reports = []*simulation.Report{}
		}
		return writeJSON(a.stdout, reports)
	}

	total, err := store.Count(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to count reports: %w", err)
	}

	if len(reports) == 0 {
		fmt.Fprintf(a.stdout, "No reports found.\n")
		return nil
	}

	fmt.Fprintf(a.stdout, "Reports (%d of %d):\n\n", len(reports), total)
	fmt.Fprintf(a.stdout, "%-36s  %-19s  %5s  %5s  %7s  %s\n", "ID", "STARTED", "ROOMS", "STEPS", "CLEANED", "STOPPED")
	for _, r := range reports {
		fmt.Fprintf(a.stdout, "%-36s  %-19s  %5d  %5d  %7d  %s\n",
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Rooms,
			r.StepsExecuted,
			r.RoomsCleaned,
			strings.Join(r.StopReasonStrings(), ","),
		)
	}

	return nil
}

func (a *App) showReport(ctx context.Context, store simulation.Store, id string, jsonOutput bool) error {
	report, err := store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	if jsonOutput {
		return writeJSON(a.stdout, report)
	}

	_, _ = fmt.Fprintf(a.stdout, "Report: %s\n", report.ID)
	_, _ = fmt.Fprintf(a.stdout, "═══════════════════════════════════════\n")
	_, _ = fmt.Fprintf(a.stdout, "  Started: %s\n", report.StartedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(a.stdout, "  Duration: %s\n", report.Duration())
	_, _ = fmt.Fprintf(a.stdout, "  Seed: %d\n", report.Seed)
	_, _ = fmt.Fprintf(a.stdout, "  Rooms: %d\n", report.Rooms)
	_, _ = fmt.Fprintf(a.stdout, "  Timestamps: %d of %d\n", report.StepsExecuted, report.MaxSteps)
	_, _ = fmt.Fprintf(a.stdout, "  Final agent status: %s\n", report.FinalState)
	_, _ = fmt.Fprintln(a.stdout)

	_, _ = fmt.Fprintf(a.stdout, "  Initial rooms state: %s\n", report.InitialStatus)
	_, _ = fmt.Fprintf(a.stdout, "  Final rooms state: %s\n", report.FinalStatusLog)
	_, _ = fmt.Fprintf(a.stdout, "  Rooms cleaned: %d\n", report.RoomsCleaned)
	_, _ = fmt.Fprintf(a.stdout, "  Energy: %s consumed of %s, %s left\n",
		formatEnergy(report.EnergyConsumed),
		formatEnergy(report.InitialEnergy),
		formatEnergy(report.RemainingEnergy))
	_, _ = fmt.Fprintln(a.stdout)

	_, _ = fmt.Fprintf(a.stdout, "  Stopped because:\n")
	for _, reason := range report.StopReasons {
		_, _ = fmt.Fprintf(a.stdout, "    - %s\n", reason.Message())
	}
	_, _ = fmt.Fprintf(a.stdout, "  Actions: %s\n", formatActions(report.Actions))

	return nil
}
