package model

import "errors"

var (
	// ErrRunInProgress is returned when a duration change would discard a
	// running or paused countdown and was not confirmed.
	ErrRunInProgress = errors.New("a countdown is in progress; confirm to discard it")
	// ErrClockUnavailable is returned when the clock did not answer a
	// control command in time.
	ErrClockUnavailable = errors.New("clock is not responding")
)
