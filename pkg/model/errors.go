package model

import "errors"

// error kinds checked across the pipeline via errors.Is
var (
	// ErrConfiguration stops the run immediately (bad arguments, empty
	// race list for a configured track).
	ErrConfiguration = errors.New("invalid configuration")
	// ErrDataConsistency excludes the affected race from aggregation
	// while the run continues; a track left without any resolvable race
	// fails the run with it.
	ErrDataConsistency = errors.New("inconsistent race data")
	// ErrUnavailable marks a race or season that could not be fetched
	// after exhausting the retry budget.
	ErrUnavailable = errors.New("data unavailable")
)
