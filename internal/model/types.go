package model

import "time"

// TimerState is the persisted form of a countdown. It is the canonical record
// for every state backend (state file and DuckDB).
//
// Deadline is stored under the "startTime" key; it is the wall-clock instant
// at which a running timer reaches zero.
type TimerState struct {
	Deadline   *time.Time `json:"startTime"`
	Remaining  int64      `json:"remainingTime"`
	WasRunning bool       `json:"wasRunning"`
	Duration   int64      `json:"duration"`
	State      string     `json:"state"`
	SavedAt    time.Time  `json:"savedAt"`
}

// VisitResult is returned by a visit registration.
type VisitResult struct {
	Count   int64 `json:"count"`
	Counted bool  `json:"counted"`
}

// VisitorSession is the client-side marker for "already counted".
type VisitorSession struct {
	ID        string    `json:"id"`
	CountedAt time.Time `json:"countedAt"`
}

// ClockStatus is a point-in-time view of the running clock, as reported to
// control clients.
type ClockStatus struct {
	State     string `json:"state"`
	Remaining int64  `json:"remaining"`
	Duration  int64  `json:"duration"`
	Display   string `json:"display"`
	Heading   string `json:"heading"`
}
