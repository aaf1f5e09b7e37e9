package tui

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/hourglass/internal/canvas"
	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/particles"
	"github.com/tinytelemetry/hourglass/internal/theme"
	"github.com/tinytelemetry/hourglass/internal/timer"
)

// Intensity step for the </> keys.
const intensityStep = 10

// Presets bound to the 1-4 keys, in minutes.
var presetMinutes = [...]int{30, 60, 90, 120}

// chromeRows is the number of rows below the raster: progress and status.
const chromeRows = 2

// ClockConfig wires a ClockModel.
type ClockConfig struct {
	Engine   *timer.Engine
	Field    *particles.Field
	Theme    *theme.State
	Prefs    model.PreferenceStore // nil = heading edits are not persisted
	Visitors VisitorSource         // nil = no visitor counter

	Heading       string
	TickInterval  time.Duration
	FrameInterval time.Duration
	Intensity     int
	Animations    bool
	// AltScreen reports whether the program starts in the alternate screen.
	AltScreen bool
}

type timerTickMsg struct {
	gen uint64
}

type frameMsg struct {
	gen uint64
}

type presetConfirmedMsg struct {
	minutes int
}

type timeEditedMsg struct {
	text string
}

type headingEditedMsg struct {
	text string
}

// ClockModel is the clock page: digits over a particle field.
type ClockModel struct {
	engine   *timer.Engine
	field    *particles.Field
	theme    *theme.State
	prefs    model.PreferenceStore
	visitors VisitorSource

	keys     KeyMap
	progress progress.Model
	styles   Styles
	mode     theme.Mode
	raster   *canvas.Raster

	heading       string
	tickInterval  time.Duration
	frameInterval time.Duration
	intensity     int
	animations    bool
	fullscreen    bool
	frameGen      uint64

	width  int
	height int

	modalStack []Modal

	visitorCount  int64
	hasVisitors   bool
	visitorCtx    context.Context
	visitorCancel context.CancelFunc

	unsubscribeTheme func()
	closed           bool
}

// NewClockModel creates the clock page model.
func NewClockModel(cfg ClockConfig) *ClockModel {
	if cfg.Engine == nil {
		cfg.Engine = timer.NewEngine(timer.EngineConfig{Duration: model.DefaultDuration})
	}
	if cfg.Field == nil {
		cfg.Field = particles.NewField(particles.Config{}, nil)
	}
	if cfg.Theme == nil {
		palettes, err := theme.LoadPalettes("")
		if err != nil {
			log.Printf("tui: load palettes: %v", err)
		}
		cfg.Theme = theme.New(theme.Dark, palettes, nil)
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = model.DefaultTickInterval
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = model.DefaultFrameInterval
	}
	heading := strings.TrimSpace(cfg.Heading)
	if heading == "" {
		heading = model.DefaultHeading
	}

	m := &ClockModel{
		engine:        cfg.Engine,
		field:         cfg.Field,
		theme:         cfg.Theme,
		prefs:         cfg.Prefs,
		visitors:      cfg.Visitors,
		keys:          DefaultKeyMap(),
		heading:       heading,
		tickInterval:  cfg.TickInterval,
		frameInterval: cfg.FrameInterval,
		intensity:     min(max(cfg.Intensity, 0), 100),
		animations:    cfg.Animations,
		fullscreen:    cfg.AltScreen,
	}
	m.visitorCtx, m.visitorCancel = context.WithCancel(context.Background())

	mode, palette := m.theme.Current()
	m.raster = canvas.New(0, 0, theme.Color(palette.Background))
	m.applyPalette(mode, palette)
	m.unsubscribeTheme = m.theme.Subscribe(m.applyPalette)

	m.field.SetIntensity(m.intensity)
	return m
}

// applyPalette rebuilds everything color-dependent. It runs on the event
// loop: theme changes are only made from key handling.
func (m *ClockModel) applyPalette(mode theme.Mode, p theme.Palette) {
	m.mode = mode
	m.styles = NewStyles(p)
	m.field.SetPalette(particlePalette(p))
	m.raster.SetBackground(theme.Color(p.Background))
	if !m.field.Running() {
		m.raster.Clear()
	}

	prog := progress.New(progress.WithSolidFill(p.Accent), progress.WithoutPercentage())
	prog.Width = m.progress.Width
	m.progress = prog
}

func (m *ClockModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.engine.State() == timer.Running {
		cmds = append(cmds, m.scheduleTick())
	}
	if m.animations {
		m.field.Start(m.intensity)
		cmds = append(cmds, m.scheduleFrame())
	}
	if m.visitors != nil {
		cmds = append(cmds,
			visitCmd(m.visitorCtx, m.visitors),
			openVisitorStream(m.visitorCtx, m.visitors),
		)
	}
	return tea.Batch(cmds...)
}

func (m *ClockModel) scheduleTick() tea.Cmd {
	gen := m.engine.TickGeneration()
	return tea.Tick(m.tickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

func (m *ClockModel) scheduleFrame() tea.Cmd {
	gen := m.frameGen
	return tea.Tick(m.frameInterval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

// Update handles messages.
func (m *ClockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case timerTickMsg:
		return m, m.handleTick(msg)

	case frameMsg:
		if msg.gen != m.frameGen || !m.animations {
			return m, nil
		}
		m.field.Step(m.raster)
		m.refreshTopModal()
		return m, m.scheduleFrame()

	case presetConfirmedMsg:
		m.engine.SetDuration(msg.minutes, true)
		return m, nil

	case timeEditedMsg:
		return m, m.applyTimeEdit(msg.text)

	case headingEditedMsg:
		m.setHeading(msg.text)
		return m, nil

	case controlMsg:
		return m, m.handleControl(msg)

	case visitResultMsg, visitorCountMsg, visitorStreamClosedMsg, visitorRetryMsg:
		return m, m.handleVisitorMsg(msg)

	case tea.KeyMsg:
		if top := m.TopModal(); top != nil {
			pop, cmd := top.Update(msg)
			if pop {
				m.PopModal()
			}
			return m, cmd
		}
		return m, m.handleKey(msg)
	}

	if top := m.TopModal(); top != nil {
		_, cmd := top.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *ClockModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.raster.Resize(width, max(height-chromeRows, 0))
	m.field.Resize(m.raster.Size())
	m.progress.Width = max(width-2, 0)
}

func (m *ClockModel) handleTick(msg timerTickMsg) tea.Cmd {
	if msg.gen != m.engine.TickGeneration() || m.engine.State() != timer.Running {
		return nil
	}
	m.refreshTopModal()
	if m.engine.Tick() {
		return nil
	}
	return m.scheduleTick()
}

func (m *ClockModel) refreshTopModal() {
	if r, ok := m.TopModal().(Refreshable); ok {
		r.Refresh()
	}
}

func (m *ClockModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
		m.Close()
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.PushModal(NewHelpModal(m.keys, &m.styles))

	case key.Matches(msg, m.keys.StartPause):
		return m.toggleRun()

	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()

	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()

	case key.Matches(msg, m.keys.AddMinute):
		m.engine.Adjust(60)
	case key.Matches(msg, m.keys.SubMinute):
		m.engine.Adjust(-60)
	case key.Matches(msg, m.keys.AddFive):
		m.engine.Adjust(300)
	case key.Matches(msg, m.keys.SubFive):
		m.engine.Adjust(-300)

	case key.Matches(msg, m.keys.Preset30):
		return m.applyPreset(presetMinutes[0])
	case key.Matches(msg, m.keys.Preset60):
		return m.applyPreset(presetMinutes[1])
	case key.Matches(msg, m.keys.Preset90):
		return m.applyPreset(presetMinutes[2])
	case key.Matches(msg, m.keys.Preset120):
		return m.applyPreset(presetMinutes[3])

	case key.Matches(msg, m.keys.EditTime):
		m.PushModal(NewInputModal("edit-time", "Set time",
			"HHMMSS", strings.ReplaceAll(timer.FormatRemaining(m.engine.Remaining()), ":", ""), 8,
			func(v string) tea.Msg { return timeEditedMsg{text: v} }, &m.styles))

	case key.Matches(msg, m.keys.EditHeading):
		m.PushModal(NewInputModal("edit-heading", "Heading",
			"Heading text", m.heading, 80,
			func(v string) tea.Msg { return headingEditedMsg{text: v} }, &m.styles))

	case key.Matches(msg, m.keys.ToggleTheme):
		m.theme.Toggle()

	case key.Matches(msg, m.keys.Fullscreen):
		m.fullscreen = !m.fullscreen
		if m.fullscreen {
			return tea.EnterAltScreen
		}
		return tea.ExitAltScreen

	case key.Matches(msg, m.keys.ToggleAnimation):
		return m.setAnimations(!m.animations)

	case key.Matches(msg, m.keys.ToggleStyle):
		m.toggleStyle()

	case key.Matches(msg, m.keys.IntensityUp):
		m.setIntensity(m.intensity + intensityStep)
	case key.Matches(msg, m.keys.IntensityDown):
		m.setIntensity(m.intensity - intensityStep)

	case key.Matches(msg, m.keys.Stats):
		m.PushModal(NewStatsModal(m.Stats, &m.styles))
	}
	return nil
}

func (m *ClockModel) toggleRun() tea.Cmd {
	if m.engine.State() == timer.Running {
		m.engine.Pause()
		return nil
	}
	if m.engine.Start() && m.engine.State() == timer.Running {
		return m.scheduleTick()
	}
	return nil
}

func (m *ClockModel) applyPreset(minutes int) tea.Cmd {
	if m.engine.SetDuration(minutes, false) {
		return nil
	}
	m.PushModal(NewConfirmModal("confirm-preset", "Change duration?",
		"Switching to "+timer.FormatRemaining(int64(minutes)*60)+" discards the current run.",
		func() tea.Msg { return presetConfirmedMsg{minutes: minutes} },
		m.keys, &m.styles))
	return nil
}

func (m *ClockModel) applyTimeEdit(text string) tea.Cmd {
	return m.setRemaining(timer.ParseManualInput(text))
}

func (m *ClockModel) setRemaining(seconds int64) tea.Cmd {
	wasRunning := m.engine.State() == timer.Running
	m.engine.SetRemaining(seconds)
	if !wasRunning && m.engine.State() == timer.Running {
		return m.scheduleTick()
	}
	return nil
}

func (m *ClockModel) setHeading(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = model.DefaultHeading
	}
	m.heading = text
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetPreference(model.PrefHeading, text); err != nil {
		log.Printf("tui: persist heading: %v", err)
	}
}

func (m *ClockModel) setAnimations(on bool) tea.Cmd {
	if on == m.animations {
		return nil
	}
	m.animations = on
	m.frameGen++
	if !on {
		m.field.Stop(m.raster)
		return nil
	}
	m.field.Start(m.intensity)
	return m.scheduleFrame()
}

func (m *ClockModel) toggleStyle() {
	next := particles.StyleDots
	if m.field.Style() == particles.StyleDots {
		next = particles.StyleSpheres
	}
	m.field.SetStyle(next)
	if !m.field.Running() {
		m.raster.Clear()
	}
}

func (m *ClockModel) setIntensity(v int) {
	m.intensity = min(max(v, 0), 100)
	m.field.SetIntensity(m.intensity)
}

// Stats collects the figures shown by the stats modal.
func (m *ClockModel) Stats() StatsSnapshot {
	return StatsSnapshot{
		MotionMix:   m.field.MotionMix(),
		Style:       m.field.Style(),
		Active:      m.field.Active(),
		Frame:       m.field.Frame(),
		Intensity:   m.intensity,
		SpawnChance: m.field.SpawnChance(),
		Animations:  m.animations,
		State:       m.engine.State(),
		Remaining:   m.engine.Remaining(),
		Duration:    m.engine.Duration(),
		Progress:    m.engine.Progress(),
		Visitors:    m.visitorCount,
		HasVisitors: m.hasVisitors,
	}
}

// Heading returns the text shown above the digits.
func (m *ClockModel) Heading() string { return m.heading }

// Fullscreen reports whether the alternate screen is active.
func (m *ClockModel) Fullscreen() bool { return m.fullscreen }

// Animations reports whether the particle field is animating.
func (m *ClockModel) Animations() bool { return m.animations }

// Intensity returns the particle intensity setting.
func (m *ClockModel) Intensity() int { return m.intensity }

// Close persists the timer and releases the visitor stream and theme
// subscription. It is safe to call more than once.
func (m *ClockModel) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.engine.Persist()
	m.visitorCancel()
	if m.unsubscribeTheme != nil {
		m.unsubscribeTheme()
	}
}
