package duckdb

import (
	"testing"
	"time"
)

func TestNewSessionCleanerDisabled(t *testing.T) {
	store := newTestStore(t)
	if sc := NewSessionCleaner(store, SessionCleanerConfig{}); sc != nil {
		t.Fatal("expected nil cleaner for zero TTL")
	}
}

func TestSessionCleanerStartupPurge(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.RecordVisit("stale", time.Now().Add(-3*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordVisit("live", time.Now()); err != nil {
		t.Fatal(err)
	}

	sc := NewSessionCleaner(store, SessionCleanerConfig{TTL: time.Hour})
	if sc == nil {
		t.Fatal("expected non-nil cleaner")
	}
	defer sc.Stop()

	res, err := store.RecordVisit("stale", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Counted {
		t.Fatal("stale session should have been purged on startup")
	}
	res, err = store.RecordVisit("live", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if res.Counted {
		t.Fatal("live session should be kept")
	}
}

func TestSessionCleanerStopIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	sc := NewSessionCleaner(store, SessionCleanerConfig{TTL: time.Hour, Interval: time.Millisecond})
	if sc == nil {
		t.Fatal("expected non-nil cleaner")
	}
	time.Sleep(5 * time.Millisecond)
	sc.Stop()
	sc.Stop()
}
