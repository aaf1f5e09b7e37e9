package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/timer"
)

// runLoop stands in for the program: it feeds every sent message through
// Update on a single goroutine and reports the returned commands.
func runLoop(t *testing.T, m *ClockModel) (send func(tea.Msg), cmds <-chan tea.Cmd) {
	t.Helper()
	msgs := make(chan tea.Msg)
	out := make(chan tea.Cmd, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			_, cmd := m.Update(msg)
			out <- cmd
		}
	}()
	t.Cleanup(func() {
		close(msgs)
		<-done
	})
	return func(msg tea.Msg) { msgs <- msg }, out
}

func TestRemoteDrivesEngine(t *testing.T) {
	tc := newTestClock(t, 10*time.Minute, false)
	send, cmds := runLoop(t, tc.model)
	r := NewRemote(send, time.Second)

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	<-cmds
	if st.State != "idle" || st.Remaining != 600 || st.Display != "00:10:00" {
		t.Fatalf("initial status = %+v", st)
	}
	if st.Heading != model.DefaultHeading {
		t.Fatalf("heading = %q", st.Heading)
	}

	st, err = r.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if cmd := <-cmds; cmd == nil {
		t.Fatal("remote start scheduled no tick")
	}
	if st.State != "running" {
		t.Fatalf("state after Start = %q", st.State)
	}

	// Starting again keeps the run going instead of pausing it.
	st, _ = r.Start()
	<-cmds
	if st.State != "running" {
		t.Fatalf("state after second Start = %q", st.State)
	}

	st, _ = r.Adjust(-120)
	<-cmds
	if st.Remaining != 480 {
		t.Fatalf("remaining after Adjust = %d, want 480", st.Remaining)
	}

	st, _ = r.Pause()
	<-cmds
	if st.State != "paused" {
		t.Fatalf("state after Pause = %q", st.State)
	}

	st, _ = r.SetRemaining(90)
	<-cmds
	if st.Remaining != 90 || st.State != "paused" {
		t.Fatalf("after SetRemaining = %+v", st)
	}

	if _, err := r.SetDuration(30, false); !errors.Is(err, model.ErrRunInProgress) {
		t.Fatalf("unconfirmed SetDuration err = %v, want ErrRunInProgress", err)
	}
	<-cmds
	if tc.model.engine.State() != timer.Paused {
		t.Fatal("refused SetDuration changed the run")
	}

	st, err = r.SetDuration(30, true)
	<-cmds
	if err != nil || st.State != "idle" || st.Duration != 1800 {
		t.Fatalf("confirmed SetDuration = %+v, %v", st, err)
	}

	if _, err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-cmds
	st, _ = r.Stop()
	<-cmds
	if st.State != "idle" || st.Remaining != 1800 {
		t.Fatalf("after Stop = %+v", st)
	}

	st, _ = r.Reset()
	<-cmds
	if st.State != "idle" || st.Remaining != 1800 {
		t.Fatalf("after Reset = %+v", st)
	}
}

func TestRemoteWorksWithModalOpen(t *testing.T) {
	tc := newTestClock(t, 10*time.Minute, false)
	tc.press("?")
	if top := tc.model.TopModal(); top == nil || top.ID() != "help" {
		t.Fatal("help modal not open")
	}
	send, cmds := runLoop(t, tc.model)
	r := NewRemote(send, time.Second)

	st, err := r.Start()
	<-cmds
	if err != nil || st.State != "running" {
		t.Fatalf("Start with modal open = %+v, %v", st, err)
	}
}

func TestRemoteTimesOutWithoutLoop(t *testing.T) {
	blocked := make(chan struct{})
	t.Cleanup(func() { close(blocked) })
	r := NewRemote(func(tea.Msg) { <-blocked }, 20*time.Millisecond)

	if _, err := r.Status(); !errors.Is(err, model.ErrClockUnavailable) {
		t.Fatalf("err = %v, want ErrClockUnavailable", err)
	}
}

func TestRemoteDropsCommandAfterTimeout(t *testing.T) {
	tc := newTestClock(t, 10*time.Minute, false)
	queued := make(chan tea.Msg, 1)
	r := NewRemote(func(msg tea.Msg) { queued <- msg }, 20*time.Millisecond)

	if _, err := r.Adjust(300); !errors.Is(err, model.ErrClockUnavailable) {
		t.Fatalf("err = %v, want ErrClockUnavailable", err)
	}

	// The loop catches up after the caller gave up.
	msg := <-queued
	if _, cmd := tc.model.Update(msg); cmd != nil {
		t.Error("abandoned command scheduled work")
	}
	if got := tc.model.engine.Remaining(); got != 600 {
		t.Fatalf("remaining = %d, want 600 after abandoned Adjust", got)
	}
	if ctl := msg.(controlMsg); len(ctl.reply) != 0 {
		t.Error("abandoned command was answered")
	}
}
