package application

import "errors"

// Application errors.
var (
	// ErrNoEnvironment is returned when an agent or simulator has no environment.
	ErrNoEnvironment = errors.New("environment is required")

	// ErrInvalidStartLocation is returned when the start room does not exist.
	ErrInvalidStartLocation = errors.New("start location is outside the row")

	// ErrInvalidEnergy is returned for a negative energy-per-room setting.
	ErrInvalidEnergy = errors.New("energy per room must not be negative")

	// ErrInvalidMaxSteps is returned when the step budget is not positive.
	ErrInvalidMaxSteps = errors.New("max steps must be at least 1")

	// ErrAlreadyRun is returned when a simulator is run twice.
	ErrAlreadyRun = errors.New("simulation already run")
)
