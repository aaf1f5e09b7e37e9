package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/timer"
)

const usage = `usage: hourglass-ctl [flags] <command> [arg]

commands:
  status              show the clock
  start               start or resume the countdown
  pause               pause a running countdown
  stop                stop and return to the configured duration
  reset               same as stop
  adjust <delta>      move the remaining time, e.g. +5m or -30s
  duration <minutes>  set the configured duration (-confirm discards a run)
  set <HHMMSS>        set the remaining time, e.g. 013000`

// runCommand maps one command line onto the controller.
func runCommand(ctl model.ClockController, args []string, confirm bool) (model.ClockStatus, error) {
	if len(args) == 0 {
		return model.ClockStatus{}, fmt.Errorf("missing command\n%s", usage)
	}
	name, rest := strings.ToLower(args[0]), args[1:]

	needArg := func() (string, error) {
		if len(rest) != 1 {
			return "", fmt.Errorf("%s takes exactly one argument", name)
		}
		return rest[0], nil
	}
	noArg := func(call func() (model.ClockStatus, error)) (model.ClockStatus, error) {
		if len(rest) != 0 {
			return model.ClockStatus{}, fmt.Errorf("%s takes no arguments", name)
		}
		return call()
	}

	switch name {
	case "status":
		return noArg(ctl.Status)
	case "start":
		return noArg(ctl.Start)
	case "pause":
		return noArg(ctl.Pause)
	case "stop":
		return noArg(ctl.Stop)
	case "reset":
		return noArg(ctl.Reset)

	case "adjust":
		arg, err := needArg()
		if err != nil {
			return model.ClockStatus{}, err
		}
		delta, err := time.ParseDuration(arg)
		if err != nil {
			return model.ClockStatus{}, fmt.Errorf("invalid delta %q: %w", arg, err)
		}
		return ctl.Adjust(int64(delta / time.Second))

	case "duration":
		arg, err := needArg()
		if err != nil {
			return model.ClockStatus{}, err
		}
		minutes, err := strconv.Atoi(arg)
		if err != nil || minutes < 0 {
			return model.ClockStatus{}, fmt.Errorf("invalid minutes %q", arg)
		}
		return ctl.SetDuration(minutes, confirm)

	case "set":
		arg, err := needArg()
		if err != nil {
			return model.ClockStatus{}, err
		}
		return ctl.SetRemaining(timer.ParseManualInput(arg))

	default:
		return model.ClockStatus{}, fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

var (
	stateStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	timeStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

var stateColors = map[string]lipgloss.Color{
	"idle":    lipgloss.Color("#6B7280"),
	"running": lipgloss.Color("#10B981"),
	"paused":  lipgloss.Color("#F59E0B"),
	"expired": lipgloss.Color("#EF4444"),
}

// formatStatus renders one status line for the terminal.
func formatStatus(st model.ClockStatus) string {
	badge := stateStyle.
		Background(stateColors[st.State]).
		Foreground(lipgloss.Color("#FFFFFF")).
		Render(strings.ToUpper(st.State))
	display := st.Display
	if display == "" {
		display = timer.FormatRemaining(st.Remaining)
	}
	parts := []string{badge, timeStyle.Render(display)}
	parts = append(parts, mutedStyle.Render("of "+timer.FormatRemaining(st.Duration)))
	if st.Heading != "" {
		parts = append(parts, mutedStyle.Render("· "+st.Heading))
	}
	return strings.Join(parts, " ")
}
