package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all clock key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding
	Confirm   key.Binding

	// Timer
	StartPause key.Binding
	Stop       key.Binding
	Reset      key.Binding
	AddMinute  key.Binding
	SubMinute  key.Binding
	AddFive    key.Binding
	SubFive    key.Binding
	Preset30   key.Binding
	Preset60   key.Binding
	Preset90   key.Binding
	Preset120  key.Binding
	EditTime   key.Binding

	// Display
	EditHeading     key.Binding
	ToggleTheme     key.Binding
	Fullscreen      key.Binding
	ToggleAnimation key.Binding
	ToggleStyle     key.Binding
	IntensityUp     key.Binding
	IntensityDown   key.Binding
	Stats           key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "confirm"),
		),

		StartPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		AddMinute: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "+1 min"),
		),
		SubMinute: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "-1 min"),
		),
		AddFive: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "+5 min"),
		),
		SubFive: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "-5 min"),
		),
		Preset30: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "30 min"),
		),
		Preset60: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "60 min"),
		),
		Preset90: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "90 min"),
		),
		Preset120: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "120 min"),
		),
		EditTime: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit time"),
		),

		EditHeading: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit heading"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "light/dark"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		ToggleAnimation: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "animation"),
		),
		ToggleStyle: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "spheres/dots"),
		),
		IntensityUp: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "more particles"),
		),
		IntensityDown: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "fewer particles"),
		),
		Stats: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "stats"),
		),
	}
}

// ShortHelp is shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartPause, k.EditTime, k.Help, k.Quit}
}

// FullHelp is shown in the help modal, one column per group.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartPause, k.Stop, k.Reset, k.EditTime},
		{k.AddMinute, k.SubMinute, k.AddFive, k.SubFive},
		{k.Preset30, k.Preset60, k.Preset90, k.Preset120},
		{k.EditHeading, k.ToggleTheme, k.Fullscreen, k.ToggleAnimation},
		{k.ToggleStyle, k.IntensityUp, k.IntensityDown, k.Stats, k.Help, k.Quit},
	}
}
