package main

import (
	"strings"
	"testing"

	"github.com/tinytelemetry/hourglass/internal/model"
)

// fakeClock records the last call and its arguments.
type fakeClock struct {
	call    string
	seconds int64
	minutes int
	confirm bool
}

func (f *fakeClock) reply(call string) (model.ClockStatus, error) {
	f.call = call
	return model.ClockStatus{State: "idle"}, nil
}

func (f *fakeClock) Status() (model.ClockStatus, error) { return f.reply("status") }
func (f *fakeClock) Start() (model.ClockStatus, error) { return f.reply("start") }
func (f *fakeClock) Pause() (model.ClockStatus, error) { return f.reply("pause") }
func (f *fakeClock) Stop() (model.ClockStatus, error) { return f.reply("stop") }
func (f *fakeClock) Reset() (model.ClockStatus, error) { return f.reply("reset") }

func (f *fakeClock) Adjust(seconds int64) (model.ClockStatus, error) {
	f.seconds = seconds
	return f.reply("adjust")
}

func (f *fakeClock) SetDuration(minutes int, confirm bool) (model.ClockStatus, error) {
	f.minutes, f.confirm = minutes, confirm
	return f.reply("duration")
}

func (f *fakeClock) SetRemaining(seconds int64) (model.ClockStatus, error) {
	f.seconds = seconds
	return f.reply("set")
}

func TestRunCommand(t *testing.T) {
	tests := []struct {
		args        []string
		confirm     bool
		wantCall    string
		wantSeconds int64
		wantMinutes int
	}{
		{args: []string{"status"}, wantCall: "status"},
		{args: []string{"START"}, wantCall: "start"},
		{args: []string{"pause"}, wantCall: "pause"},
		{args: []string{"stop"}, wantCall: "stop"},
		{args: []string{"reset"}, wantCall: "reset"},
		{args: []string{"adjust", "+5m"}, wantCall: "adjust", wantSeconds: 300},
		{args: []string{"adjust", "-90s"}, wantCall: "adjust", wantSeconds: -90},
		{args: []string{"duration", "45"}, confirm: true, wantCall: "duration", wantMinutes: 45},
		{args: []string{"set", "013000"}, wantCall: "set", wantSeconds: 5400},
		{args: []string{"set", "1:02:03"}, wantCall: "set", wantSeconds: 3723},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			f := &fakeClock{}
			if _, err := runCommand(f, tt.args, tt.confirm); err != nil {
				t.Fatalf("runCommand: %v", err)
			}
			if f.call != tt.wantCall {
				t.Errorf("call = %q, want %q", f.call, tt.wantCall)
			}
			if f.seconds != tt.wantSeconds {
				t.Errorf("seconds = %d, want %d", f.seconds, tt.wantSeconds)
			}
			if f.minutes != tt.wantMinutes {
				t.Errorf("minutes = %d, want %d", f.minutes, tt.wantMinutes)
			}
			if f.confirm != tt.confirm {
				t.Errorf("confirm = %v, want %v", f.confirm, tt.confirm)
			}
		})
	}
}

func TestRunCommandRejects(t *testing.T) {
	tests := [][]string{
		nil,
		{"launch"},
		{"status", "now"},
		{"adjust"},
		{"adjust", "five"},
		{"duration", "-3"},
		{"duration", "x"},
		{"set"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			f := &fakeClock{}
			if _, err := runCommand(f, args, false); err == nil {
				t.Errorf("runCommand(%q) succeeded", args)
			}
			if f.call != "" {
				t.Errorf("rejected command reached the clock as %q", f.call)
			}
		})
	}
}

func TestFormatStatus(t *testing.T) {
	got := formatStatus(model.ClockStatus{
		State:     "running",
		Remaining: 3723,
		Duration:  5400,
		Heading:   "Physics Final",
	})
	for _, want := range []string{"RUNNING", "01:02:03", "01:30:00", "Physics Final"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStatus missing %q: %q", want, got)
		}
	}
}
