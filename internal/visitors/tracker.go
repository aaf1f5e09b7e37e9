package visitors

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// Incrementer records a visit for a session.
type Incrementer interface {
	Increment(ctx context.Context, sessionID string) (model.VisitResult, error)
}

// Tracker counts this installation once per session. A session lives in
// the preference store and expires after the TTL.
type Tracker struct {
	counter Incrementer
	prefs   model.PreferenceStore
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
}

// NewTracker creates a tracker. ttl <= 0 uses model.DefaultVisitorSessionTTL.
func NewTracker(counter Incrementer, prefs model.PreferenceStore, ttl time.Duration) *Tracker {
	if ttl <= 0 {
		ttl = model.DefaultVisitorSessionTTL
	}
	return &Tracker{
		counter: counter,
		prefs:   prefs,
		ttl:     ttl,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Visit sends one increment when the current session has not been counted.
// It reports the returned total and whether a request was made and
// succeeded. Failures are logged; the marker is only written on success.
func (t *Tracker) Visit(ctx context.Context) (model.VisitResult, bool) {
	if sess, ok := t.current(); ok {
		log.Printf("visitors: session %s already counted at %s", sess.ID, sess.CountedAt.Format(time.RFC3339))
		return model.VisitResult{}, false
	}

	id := t.newID()
	res, err := t.counter.Increment(ctx, id)
	if err != nil {
		log.Printf("visitors: increment: %v", err)
		return model.VisitResult{}, false
	}

	t.save(model.VisitorSession{ID: id, CountedAt: t.now()})
	return res, true
}

func (t *Tracker) current() (model.VisitorSession, bool) {
	if t.prefs == nil {
		return model.VisitorSession{}, false
	}
	raw, ok, err := t.prefs.Preference(model.PrefVisitorSession)
	if err != nil {
		log.Printf("visitors: read session: %v", err)
		return model.VisitorSession{}, false
	}
	if !ok {
		return model.VisitorSession{}, false
	}
	var sess model.VisitorSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.ID == "" {
		return model.VisitorSession{}, false
	}
	if t.now().Sub(sess.CountedAt) >= t.ttl {
		return model.VisitorSession{}, false
	}
	return sess, true
}

func (t *Tracker) save(sess model.VisitorSession) {
	if t.prefs == nil {
		return
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		log.Printf("visitors: encode session: %v", err)
		return
	}
	if err := t.prefs.SetPreference(model.PrefVisitorSession, string(raw)); err != nil {
		log.Printf("visitors: write session: %v", err)
	}
}
