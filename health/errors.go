package health

import "errors"

var (
	// ErrCheckFailed marks a component check that could not pass, such as
	// an unreachable upstream or a spent day budget.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout is set on a result when a checker outlives the
	// aggregator's deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned when a single-check lookup names a
	// component that was never registered.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
