package simulation

import "errors"

// Domain errors for report store operations.
var (
	// ErrReportNotFound is returned when a report does not exist.
	ErrReportNotFound = errors.New("report not found")

	// ErrReportExists is returned when attempting to save a report that already exists.
	ErrReportExists = errors.New("report already exists")

	// ErrInvalidReportID is returned when a report ID is invalid (e.g., empty).
	ErrInvalidReportID = errors.New("invalid report ID")

	// ErrConnectionFailed is returned when connection to the store backend fails.
	ErrConnectionFailed = errors.New("store connection failed")
)
