package statefile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinytelemetry/hourglass/internal/model"
)

func TestSaveLoadAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok, err := s.LoadTimerState(); err != nil || ok {
		t.Fatalf("empty store LoadTimerState ok=%v err=%v", ok, err)
	}

	deadline := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	want := model.TimerState{
		Deadline:   &deadline,
		Remaining:  120,
		WasRunning: true,
		Duration:   5400,
		State:      "running",
		SavedAt:    deadline.Add(-2 * time.Minute),
	}
	if err := s.SaveTimerState(want); err != nil {
		t.Fatalf("SaveTimerState: %v", err)
	}
	if err := s.SetPreference(model.PrefTheme, "light"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok, err := reopened.LoadTimerState()
	if err != nil || !ok {
		t.Fatalf("LoadTimerState ok=%v err=%v", ok, err)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("deadline = %v, want %v", got.Deadline, deadline)
	}
	if got.Remaining != 120 || !got.WasRunning || got.Duration != 5400 || got.State != "running" {
		t.Fatalf("state = %+v", got)
	}
	if v, ok, _ := reopened.Preference(model.PrefTheme); !ok || v != "light" {
		t.Fatalf("theme = %q ok=%v", v, ok)
	}
}

func TestClearTimerStateKeepsPreferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.SetPreference(model.PrefHeading, "Finals")
	_ = s.SaveTimerState(model.TimerState{Remaining: 10, State: "paused"})
	if err := s.ClearTimerState(); err != nil {
		t.Fatalf("ClearTimerState: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok, _ := reopened.LoadTimerState(); ok {
		t.Fatal("timer state should be cleared")
	}
	if v, _, _ := reopened.Preference(model.PrefHeading); v != "Finals" {
		t.Fatalf("heading = %q", v)
	}
}

func TestOpenCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok, _ := s.LoadTimerState(); ok {
		t.Fatal("corrupt file should load as empty")
	}
	if err := s.SetPreference(model.PrefTheme, "dark"); err != nil {
		t.Fatalf("SetPreference after corrupt: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestWriteFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// A directory in place of the tmp file makes the write fail.
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveTimerState(model.TimerState{Remaining: 1}); err == nil {
		t.Fatal("expected write error")
	}
}

func TestMemoryStoreKeepsStateWithoutFiles(t *testing.T) {
	s := NewMemory()
	deadline := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	if err := s.SaveTimerState(model.TimerState{Deadline: &deadline, Remaining: 60, State: "running"}); err != nil {
		t.Fatalf("SaveTimerState: %v", err)
	}
	if err := s.SetPreference(model.PrefTheme, "light"); err != nil {
		t.Fatalf("SetPreference: %v", err)
	}
	st, ok, err := s.LoadTimerState()
	if err != nil || !ok || st.Remaining != 60 {
		t.Fatalf("LoadTimerState = %+v ok=%v err=%v", st, ok, err)
	}
	if v, ok, _ := s.Preference(model.PrefTheme); !ok || v != "light" {
		t.Fatalf("Preference = %q/%v", v, ok)
	}
	if s.Path() != "" {
		t.Errorf("Path() = %q, want empty", s.Path())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestTickRefreshSkipsSync(t *testing.T) {
	syncs := 0
	orig := syncFile
	syncFile = func(f *os.File) error {
		syncs++
		return f.Sync()
	}
	t.Cleanup(func() { syncFile = orig })

	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	deadline := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	running := func(remaining int64) model.TimerState {
		d := deadline
		return model.TimerState{Deadline: &d, Remaining: remaining, WasRunning: true, Duration: 600, State: "running"}
	}

	// Start is durable.
	if err := s.SaveTimerState(running(600)); err != nil {
		t.Fatal(err)
	}
	if syncs != 1 {
		t.Fatalf("syncs after start = %d, want 1", syncs)
	}

	// Ticks of the same run only refresh remaining.
	for r := int64(599); r > 590; r-- {
		if err := s.SaveTimerState(running(r)); err != nil {
			t.Fatal(err)
		}
	}
	if syncs != 1 {
		t.Fatalf("syncs after ticks = %d, want 1", syncs)
	}

	// The refreshed value is still written.
	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if st, _, _ := reopened.LoadTimerState(); st.Remaining != 591 {
		t.Fatalf("on-disk remaining = %d, want 591", st.Remaining)
	}

	// Close flushes the unsynced tick write.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if syncs != 2 {
		t.Fatalf("syncs after Close = %d, want 2", syncs)
	}

	// A pause changes the run and is durable again.
	if err := s.SaveTimerState(model.TimerState{Remaining: 590, Duration: 600, State: "paused"}); err != nil {
		t.Fatal(err)
	}
	if syncs != 3 {
		t.Fatalf("syncs after pause = %d, want 3", syncs)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if syncs != 3 {
		t.Errorf("Close after a durable write synced again: %d", syncs)
	}
}
