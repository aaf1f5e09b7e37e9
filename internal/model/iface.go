package model

import "time"

// TimerStateStore persists the single countdown record.
type TimerStateStore interface {
	LoadTimerState() (TimerState, bool, error)
	SaveTimerState(state TimerState) error
	ClearTimerState() error
}

// PreferenceStore persists small string preferences (theme, session marker).
type PreferenceStore interface {
	Preference(key string) (string, bool, error)
	SetPreference(key, value string) error
}

// StateStore is the unified local state contract used by the clock.
type StateStore interface {
	TimerStateStore
	PreferenceStore
	Close() error
}

// VisitStore is the counter contract served by the HTTP API.
type VisitStore interface {
	RecordVisit(sessionID string, at time.Time) (VisitResult, error)
	VisitCount() (int64, error)
	DeleteSessionsBefore(cutoff time.Time) (int64, error)
}

// ClockController drives a running clock from outside its terminal. Every
// method returns the status after the command was applied.
type ClockController interface {
	Status() (ClockStatus, error)
	Start() (ClockStatus, error)
	Pause() (ClockStatus, error)
	Stop() (ClockStatus, error)
	Reset() (ClockStatus, error)
	Adjust(seconds int64) (ClockStatus, error)
	SetDuration(minutes int, confirm bool) (ClockStatus, error)
	SetRemaining(seconds int64) (ClockStatus, error)
}
