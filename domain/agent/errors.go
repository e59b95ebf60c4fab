package agent

import "errors"

// Domain errors for the cleaning agent. Every one of them is a broken
// precondition: under the reflex policy none should ever be returned.
var (
	// ErrAgentOff indicates perceive or act was attempted while OFF.
	ErrAgentOff = errors.New("agent is off")

	// ErrInsufficientEnergy indicates an action cost exceeds the energy level.
	ErrInsufficientEnergy = errors.New("insufficient energy")

	// ErrInvalidAmount indicates a non-positive energy debit.
	ErrInvalidAmount = errors.New("invalid energy amount (should be greater than zero)")

	// ErrInvalidMove indicates a move in a direction other than left or right.
	ErrInvalidMove = errors.New("invalid move direction")

	// ErrRoomNotFound indicates a move into a room outside the row.
	ErrRoomNotFound = errors.New("destination room does not exist")

	// ErrRoomAlreadyClean indicates an attempt to suck a clean room.
	ErrRoomAlreadyClean = errors.New("trying to suck a clean room")

	// ErrLocationMismatch indicates the agent is not in the room it decided on.
	ErrLocationMismatch = errors.New("mismatch in room location")

	// ErrInvalidDecision indicates a malformed decision.
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrInvalidAction indicates an unrecognized action tag.
	ErrInvalidAction = errors.New("invalid action taken")
)
