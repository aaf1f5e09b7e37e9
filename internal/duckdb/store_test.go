package duckdb

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tinytelemetry/hourglass/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTimerStateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if _, ok, err := store.LoadTimerState(); err != nil || ok {
		t.Fatalf("empty LoadTimerState ok=%v err=%v", ok, err)
	}

	deadline := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	first := model.TimerState{Deadline: &deadline, Remaining: 300, WasRunning: true, Duration: 600, State: "running", SavedAt: deadline.Add(-5 * time.Minute)}
	if err := store.SaveTimerState(first); err != nil {
		t.Fatalf("SaveTimerState: %v", err)
	}
	second := model.TimerState{Remaining: 120, Duration: 600, State: "paused", SavedAt: deadline}
	if err := store.SaveTimerState(second); err != nil {
		t.Fatalf("SaveTimerState overwrite: %v", err)
	}

	got, ok, err := store.LoadTimerState()
	if err != nil || !ok {
		t.Fatalf("LoadTimerState ok=%v err=%v", ok, err)
	}
	if got.Deadline != nil || got.WasRunning || got.Remaining != 120 || got.State != "paused" {
		t.Fatalf("LoadTimerState = %+v, want the second record", got)
	}

	if err := store.ClearTimerState(); err != nil {
		t.Fatalf("ClearTimerState: %v", err)
	}
	if _, ok, _ := store.LoadTimerState(); ok {
		t.Fatal("timer state still present after clear")
	}
}

func TestPreferencesUpsert(t *testing.T) {
	store := newTestStore(t)

	if _, ok, err := store.Preference(model.PrefTheme); err != nil || ok {
		t.Fatalf("missing preference ok=%v err=%v", ok, err)
	}
	for _, v := range []string{"dark", "light"} {
		if err := store.SetPreference(model.PrefTheme, v); err != nil {
			t.Fatalf("SetPreference(%q): %v", v, err)
		}
	}
	v, ok, err := store.Preference(model.PrefTheme)
	if err != nil || !ok || v != "light" {
		t.Fatalf("Preference = %q ok=%v err=%v", v, ok, err)
	}
}

func TestStatePersistsOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.duckdb")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.SetPreference(model.PrefHeading, "Physics"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })
	if v, _, _ := reopened.Preference(model.PrefHeading); v != "Physics" {
		t.Fatalf("heading = %q after reopen", v)
	}
}

func TestRecordVisitCountsSessionOnce(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	tests := []struct {
		session     string
		wantCount   int64
		wantCounted bool
	}{
		{"a", 1, true},
		{"a", 1, false},
		{"b", 2, true},
		{"a", 2, false},
		{"c", 3, true},
	}
	for i, tt := range tests {
		got, err := store.RecordVisit(tt.session, now)
		if err != nil {
			t.Fatalf("step %d RecordVisit(%q): %v", i, tt.session, err)
		}
		if got.Count != tt.wantCount || got.Counted != tt.wantCounted {
			t.Fatalf("step %d RecordVisit(%q) = %+v, want count=%d counted=%v", i, tt.session, got, tt.wantCount, tt.wantCounted)
		}
	}

	count, err := store.VisitCount()
	if err != nil {
		t.Fatalf("VisitCount: %v", err)
	}
	if count != 3 {
		t.Fatalf("VisitCount = %d, want 3", count)
	}
}

func TestRecordVisitConcurrent(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Ten distinct sessions, each sent twice.
			if _, err := store.RecordVisit(string(rune('a'+i%10)), now); err != nil {
				t.Errorf("RecordVisit: %v", err)
			}
		}(i)
	}
	wg.Wait()

	count, err := store.VisitCount()
	if err != nil {
		t.Fatalf("VisitCount: %v", err)
	}
	if count != 10 {
		t.Fatalf("VisitCount = %d, want 10", count)
	}
}

func TestDeleteSessionsBeforeLetsVisitorCountAgain(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	if _, err := store.RecordVisit("old", now.Add(-48*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordVisit("fresh", now); err != nil {
		t.Fatal(err)
	}

	n, err := store.DeleteSessionsBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteSessionsBefore: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted %d sessions, want 1", n)
	}

	res, err := store.RecordVisit("old", now)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Counted || res.Count != 3 {
		t.Fatalf("returning visitor = %+v, want counted with count 3", res)
	}
	res, err = store.RecordVisit("fresh", now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Counted {
		t.Fatal("fresh session should not count twice")
	}
}
