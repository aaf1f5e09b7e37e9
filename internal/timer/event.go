package timer

import "time"

// EventKind names an engine transition.
type EventKind string

const (
	EventStarted         EventKind = "started"
	EventResumed         EventKind = "resumed"
	EventPaused          EventKind = "paused"
	EventStopped         EventKind = "stopped"
	EventReset           EventKind = "reset"
	EventAdjusted        EventKind = "adjusted"
	EventDurationChanged EventKind = "duration"
	EventExpired         EventKind = "expired"
	EventRestored        EventKind = "restored"
)

// Event is delivered to EngineConfig.Observer after each transition.
type Event struct {
	Kind      EventKind
	At        time.Time
	Remaining int64
	Duration  int64
}

// Observers fans one event out to several observers. Nil entries are skipped.
func Observers(fns ...func(Event)) func(Event) {
	return func(ev Event) {
		for _, fn := range fns {
			if fn != nil {
				fn(ev)
			}
		}
	}
}
