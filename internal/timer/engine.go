package timer

import (
	"log"
	"time"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// RunState is the lifecycle state of a countdown.
type RunState int

const (
	Idle RunState = iota
	Running
	Paused
	Expired
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	default:
		return "idle"
	}
}

// ParseRunState maps a persisted state name back to a RunState.
// Unknown names are treated as Idle.
func ParseRunState(s string) RunState {
	switch s {
	case "running":
		return Running
	case "paused":
		return Paused
	case "expired":
		return Expired
	default:
		return Idle
	}
}

// Clock supplies wall-clock time. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// EngineConfig configures a new Engine.
type EngineConfig struct {
	Duration time.Duration
	Store    model.TimerStateStore // nil = in-memory only
	Clock    Clock                 // nil = wall clock
	Observer func(Event)           // optional transition hook
}

// Engine is a deadline-based countdown. While running, the remaining time is
// always derived from an absolute deadline, so missed or late ticks never
// accumulate drift. Pausing converts it back into a frozen snapshot.
//
// Engine is not safe for concurrent use; it is driven from a single event loop.
type Engine struct {
	clock    Clock
	store    model.TimerStateStore
	observer func(Event)

	original int64 // seconds
	state    RunState
	deadline time.Time     // zero unless Running
	frozen   time.Duration // remaining while not Running
	gen      uint64
}

// NewEngine creates an idle engine. Call Restore to pick up persisted state.
func NewEngine(cfg EngineConfig) *Engine {
	clock := cfg.Clock
	if clock == nil {
		clock = systemClock{}
	}
	original := int64(cfg.Duration / time.Second)
	if original < 0 {
		original = 0
	}
	return &Engine{
		clock:    clock,
		store:    cfg.Store,
		observer: cfg.Observer,
		original: original,
		frozen:   time.Duration(original) * time.Second,
	}
}

// State returns the current run state.
func (e *Engine) State() RunState { return e.state }

// Duration returns the configured countdown length in seconds.
func (e *Engine) Duration() int64 { return e.original }

// Deadline returns the instant the running timer reaches zero.
func (e *Engine) Deadline() (time.Time, bool) {
	if e.state != Running {
		return time.Time{}, false
	}
	return e.deadline, true
}

// TickGeneration identifies the live tick schedule. Every transition that
// cancels the tick bumps it; a tick scheduled under an older generation
// must be discarded by the caller.
func (e *Engine) TickGeneration() uint64 { return e.gen }

// Remaining returns the whole seconds left.
func (e *Engine) Remaining() int64 {
	return wholeSeconds(e.remainingDuration())
}

// Progress returns the elapsed fraction of the configured duration in [0,1].
func (e *Engine) Progress() float64 {
	if e.original <= 0 {
		if e.state == Expired {
			return 1
		}
		return 0
	}
	p := 1 - float64(e.remainingDuration())/float64(time.Duration(e.original)*time.Second)
	return min(max(p, 0), 1)
}

func (e *Engine) remainingDuration() time.Duration {
	if e.state == Running {
		d := e.deadline.Sub(e.clock.Now())
		if d < 0 {
			return 0
		}
		return d
	}
	return e.frozen
}

// Start begins or resumes the countdown. It reports whether the state changed.
func (e *Engine) Start() bool {
	switch e.state {
	case Idle, Paused:
	default:
		return false
	}

	resumed := e.state == Paused
	if e.state == Idle {
		e.frozen = time.Duration(e.original) * time.Second
	}
	if e.frozen <= 0 {
		e.expire()
		return true
	}

	now := e.clock.Now()
	e.deadline = now.Add(e.frozen)
	e.state = Running
	e.gen++
	e.persist()
	if resumed {
		e.emit(EventResumed)
	} else {
		e.emit(EventStarted)
	}
	return true
}

// Pause freezes the remaining time. Only valid while running.
func (e *Engine) Pause() bool {
	if e.state != Running {
		return false
	}
	e.frozen = e.remainingDuration()
	e.deadline = time.Time{}
	e.state = Paused
	e.gen++
	e.persist()
	e.emit(EventPaused)
	return true
}

// Stop cancels the countdown and returns to the configured duration.
func (e *Engine) Stop() {
	e.toIdle()
	e.emit(EventStopped)
}

// Reset is Stop plus dropping any paused snapshot.
func (e *Engine) Reset() {
	e.toIdle()
	e.emit(EventReset)
}

func (e *Engine) toIdle() {
	e.state = Idle
	e.deadline = time.Time{}
	e.frozen = time.Duration(e.original) * time.Second
	e.gen++
	e.clear()
}

// SetDuration configures a new countdown length in minutes. While a run is in
// progress (Running or Paused) it discards progress, so it only applies when
// the caller passes confirmed=true. It reports whether the change applied.
func (e *Engine) SetDuration(minutes int, confirmed bool) bool {
	return e.setDurationSeconds(int64(minutes)*60, confirmed)
}

func (e *Engine) setDurationSeconds(seconds int64, confirmed bool) bool {
	if (e.state == Running || e.state == Paused) && !confirmed {
		return false
	}
	if seconds < 0 {
		seconds = 0
	}
	e.original = seconds
	e.toIdle()
	e.emit(EventDurationChanged)
	return true
}

// Adjust adds deltaSeconds (possibly negative) to the remaining time. While
// running, the deadline moves by exactly delta. Remaining time is clamped at
// zero; an adjusted-to-zero running timer expires on the next tick.
func (e *Engine) Adjust(deltaSeconds int64) {
	delta := time.Duration(deltaSeconds) * time.Second
	switch e.state {
	case Running:
		now := e.clock.Now()
		if e.deadline.Add(delta).Before(now) {
			delta = now.Sub(e.deadline)
		}
		e.deadline = e.deadline.Add(delta)
	case Paused:
		e.frozen = max(e.frozen+delta, 0)
	case Idle:
		e.original = max(e.original+deltaSeconds, 0)
		e.frozen = time.Duration(e.original) * time.Second
		e.emit(EventAdjusted)
		return
	default:
		return
	}
	e.persist()
	e.emit(EventAdjusted)
}

// SetRemaining applies a manual edit of the displayed time. When no run is in
// progress it becomes the configured duration; otherwise the remaining time
// is adjusted by the difference so the run continues.
func (e *Engine) SetRemaining(seconds int64) {
	if seconds < 0 {
		seconds = 0
	}
	switch e.state {
	case Running, Paused:
		e.Adjust(seconds - e.Remaining())
	default:
		e.setDurationSeconds(seconds, true)
	}
}

// Tick recomputes the remaining time from the deadline and persists it. It
// reports true only on the tick that moves the timer to Expired.
func (e *Engine) Tick() bool {
	if e.state != Running {
		return false
	}
	if e.Remaining() > 0 {
		e.persist()
		return false
	}
	e.expire()
	return true
}

func (e *Engine) expire() {
	e.state = Expired
	e.deadline = time.Time{}
	e.frozen = 0
	e.gen++
	e.clear()
	e.emit(EventExpired)
}

// Persist saves the current state. Used when the host shuts down.
func (e *Engine) Persist() {
	switch e.state {
	case Running, Paused:
		e.persist()
	}
}

// Restore loads persisted state once at startup. A running record is
// resumed against its stored deadline, so time spent while the program was
// closed is counted.
func (e *Engine) Restore() bool {
	if e.store == nil {
		return false
	}
	st, ok, err := e.store.LoadTimerState()
	if err != nil {
		log.Printf("timer: restore state: %v", err)
		return false
	}
	if !ok {
		return false
	}

	if st.Duration > 0 {
		e.original = st.Duration
	}

	if st.WasRunning && st.Deadline != nil {
		e.deadline = *st.Deadline
		e.state = Running
		e.gen++
		if e.Remaining() <= 0 {
			e.expire()
			return true
		}
		e.emit(EventRestored)
		return true
	}

	remaining := max(st.Remaining, 0)
	e.frozen = time.Duration(remaining) * time.Second
	e.deadline = time.Time{}
	switch ParseRunState(st.State) {
	case Paused:
		e.state = Paused
	case Expired:
		e.state = Expired
		e.frozen = 0
	default:
		e.state = Idle
		if remaining != e.original {
			e.state = Paused
		}
	}
	e.gen++
	e.emit(EventRestored)
	return true
}

func (e *Engine) snapshot() model.TimerState {
	st := model.TimerState{
		Remaining: e.Remaining(),
		Duration:  e.original,
		State:     e.state.String(),
		SavedAt:   e.clock.Now(),
	}
	if e.state == Running {
		d := e.deadline
		st.Deadline = &d
		st.WasRunning = true
	}
	return st
}

func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	if err := e.store.SaveTimerState(e.snapshot()); err != nil {
		log.Printf("timer: persist state: %v", err)
	}
}

func (e *Engine) clear() {
	if e.store == nil {
		return
	}
	if err := e.store.ClearTimerState(); err != nil {
		log.Printf("timer: clear state: %v", err)
	}
}

func (e *Engine) emit(kind EventKind) {
	if e.observer == nil {
		return
	}
	e.observer(Event{
		Kind:      kind,
		At:        e.clock.Now(),
		Remaining: e.Remaining(),
		Duration:  e.original,
	})
}

func wholeSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
