package domain

import "errors"

// Sentinel error kinds surfaced by a pipeline run. Callers match them with
// errors.Is; the wrapped message carries the detail.
var (
	// ErrInvalidInput marks a RecordSet that violates the input contract
	// (duplicate or non-increasing timestamps). The run aborts before any
	// stage executes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData is raised by imputation when the series contains
	// no valid value at all, so no gap can be filled. The run produces no
	// output rather than zero-filling.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidConfig marks a stage constructed with an unusable setting:
	// a non-positive sigma threshold or an unknown method selector.
	ErrInvalidConfig = errors.New("invalid configuration")
)
