// Package main demonstrates observability integration with OpenTelemetry.
// Shows tracing, metrics, and structured logging.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/felixgeelhaar/iclean/application"
	"github.com/felixgeelhaar/iclean/infrastructure/logging"
	"github.com/felixgeelhaar/iclean/infrastructure/observability"
	"github.com/felixgeelhaar/iclean/infrastructure/telemetry"
	"github.com/felixgeelhaar/iclean/infrastructure/world"
)

func main() {
	ctx := context.Background()

	fmt.Println("=== Observability Example ===")
	fmt.Println()

	// ============================================
	// Structured logging: debug shows every perception
	// ============================================

	logging.Init(logging.Config{Level: "debug", Format: "json", Output: os.Stderr})

	// ============================================
	// Tracing to stdout, metrics through an SDK meter provider
	// ============================================

	// In production, use WithTracing(observability.ExporterOTLP, "collector:4317")
	provider, err := observability.New(ctx,
		observability.WithServiceName("iclean-example"),
		observability.WithStdoutTracing(os.Stdout),
		observability.WithMetrics(observability.ExporterNoop, ""),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := provider.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()
	provider.SetGlobal()

	metrics := telemetry.NewMetricsProvider(telemetry.MetricsConfig{
		MeterProvider: provider.MeterProvider(),
	})
	if err := metrics.Error(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("Tracer and meter initialized")
	fmt.Println()

	// ============================================
	// Run a random row
	// ============================================

	row, err := world.NewRow(world.RowConfig{Rooms: 4, Seed: 2024})
	if err != nil {
		log.Fatal(err)
	}

	sim, err := application.NewSimulator(application.SimulatorConfig{
		Environment: row,
		MaxSteps:    15,
		Seed:        row.Seed(),
		Metrics:     metrics,
		Tracer:      provider.Tracer(observability.TracerName),
	})
	if err != nil {
		log.Fatal(err)
	}

	report, err := sim.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	// ============================================
	// The ledger keeps every step for auditing
	// ============================================

	fmt.Printf("Simulation %s: %d timestamps, stop reasons %v\n",
		report.ID, report.StepsExecuted, report.StopReasons)
	fmt.Printf("Ledger entries: %d\n", sim.Ledger().Count())
	fmt.Printf("Rooms cleaned, in order: %v\n", sim.Ledger().CleanedRooms())
	fmt.Println()
	fmt.Println("Spans follow once the provider shuts down:")
}
