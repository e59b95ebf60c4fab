// Package main demonstrates persisting reports in SQLite and reading them back.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/iclean/application"
	"github.com/felixgeelhaar/iclean/domain/config"
	"github.com/felixgeelhaar/iclean/domain/simulation"
	"github.com/felixgeelhaar/iclean/infrastructure/storage"
	"github.com/felixgeelhaar/iclean/infrastructure/world"
)

func main() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "iclean-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	// storage.Open wraps the backend with retries and a circuit breaker.
	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendSQLite
	cfg.Storage.DSN = "file:" + filepath.Join(dir, "reports.db") + "?mode=rwc"

	store, err := storage.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Run a few seeded simulations.
	for seed := uint64(1); seed <= 5; seed++ {
		row, err := world.NewRow(world.RowConfig{Rooms: 3, Seed: seed})
		if err != nil {
			log.Fatal(err)
		}
		sim, err := application.NewSimulator(application.SimulatorConfig{
			Environment: row,
			MaxSteps:    8,
			Seed:        seed,
			Store:       store,
		})
		if err != nil {
			log.Fatal(err)
		}
		if _, err := sim.Run(ctx); err != nil {
			log.Fatal(err)
		}
	}

	// Query them back.
	all, err := store.Count(ctx, simulation.ListFilter{})
	if err != nil {
		log.Fatal(err)
	}
	clean, err := store.List(ctx, simulation.ListFilter{StopReason: simulation.StopAllClean})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Stored reports: %d\n", all)
	fmt.Printf("Runs that ended with every room clean: %d\n", len(clean))
	for _, r := range clean {
		fmt.Printf("  %s seed=%d steps=%d actions=%v\n", r.ID, r.Seed, r.StepsExecuted, r.Actions)
	}
}
