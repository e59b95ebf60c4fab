// Package main demonstrates the smallest complete simulation.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/felixgeelhaar/iclean/application"
	"github.com/felixgeelhaar/iclean/domain/environment"
	"github.com/felixgeelhaar/iclean/infrastructure/world"
)

func main() {
	// 1. A fixed row: a filthy room, a clean one and a lightly dirty one.
	row, err := world.NewRowFromStatus(environment.Status{
		environment.DirtyRoom(0, environment.High),
		environment.CleanRoom(1),
		environment.DirtyRoom(2, environment.Low),
	}, world.RowConfig{Seed: 1, RedirtyProbability: world.Probability(0)})
	if err != nil {
		log.Fatal(err)
	}

	// 2. The simulator owns the agent; it starts in room 0 with 2.5 energy per room.
	sim, err := application.NewSimulator(application.SimulatorConfig{
		Environment: row,
		MaxSteps:    10,
		OnStep: func(r application.StepResult) {
			fmt.Printf("t=%d room=%s action=%s energy=%.1f\n",
				r.Timestamp, r.Room, r.Action, r.RemainingEnergy)
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	// 3. Run until the agent is off, the rooms are clean or time is up.
	report, err := sim.Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	// 4. Check results
	fmt.Printf("\nStopped after %d timestamps: %v\n", report.StepsExecuted, report.StopReasons)
	fmt.Printf("Rooms cleaned: %d\n", report.RoomsCleaned)
	fmt.Printf("Energy: %.1f consumed, %.1f left\n", report.EnergyConsumed, report.RemainingEnergy)
	fmt.Printf("Final rooms: %s\n", report.FinalStatusLog)
	fmt.Printf("Actions: %v\n", report.Actions)
}
