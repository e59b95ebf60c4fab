package world

import "errors"

// ErrInvalidRow indicates a row configuration or layout that cannot be built.
var ErrInvalidRow = errors.New("invalid row")
