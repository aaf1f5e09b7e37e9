package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/hourglass/internal/chime"
	"github.com/tinytelemetry/hourglass/internal/duckdb"
	"github.com/tinytelemetry/hourglass/internal/eventlog"
	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/particles"
	"github.com/tinytelemetry/hourglass/internal/socketrpc"
	"github.com/tinytelemetry/hourglass/internal/statefile"
	"github.com/tinytelemetry/hourglass/internal/theme"
	"github.com/tinytelemetry/hourglass/internal/timer"
	"github.com/tinytelemetry/hourglass/internal/tui"
	"github.com/tinytelemetry/hourglass/internal/visitors"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/hourglass/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("Hourglass - Exam Clock\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := runTUI(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// visitorSource joins the session tracker with the count stream.
type visitorSource struct {
	*visitors.Tracker
	*visitors.Client
}

func runTUI(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	store := openStateStoreOrMemory(cfg)
	defer store.Close()

	palettes, err := theme.LoadPalettes(theme.OverridePath(cfg.ConfigDir))
	if err != nil {
		log.Printf("theme: %v (using built-in palettes)", err)
	}
	themeState := theme.New(theme.Mode(cfg.Theme), palettes, store)
	themeState.Load()

	recorder, err := eventlog.Open(cfg.EventLog)
	if err != nil {
		log.Printf("eventlog: disabled: %v", err)
	}
	defer recorder.Close()

	var bell *chime.Chime
	if cfg.Chime {
		bell = chime.New(cfg.ChimeRepeats)
	}

	engine := timer.NewEngine(timer.EngineConfig{
		Duration: cfg.Duration,
		Store:    store,
		Observer: timer.Observers(recorder.Observe, bell.Observe),
	})
	engine.Restore()

	var source tui.VisitorSource
	if cfg.CounterURL != "" {
		client, err := visitors.NewClient(cfg.CounterURL, cfg.CounterTimeout)
		if err != nil {
			log.Printf("visitors: disabled: %v", err)
		} else {
			source = visitorSource{
				Tracker: visitors.NewTracker(client, store, cfg.VisitorSessionTTL),
				Client:  client,
			}
		}
	}

	// Validated by loadConfig.
	style, _ := particles.ParseStyle(cfg.ParticleStyle)

	heading := cfg.Heading
	if saved, ok, err := store.Preference(model.PrefHeading); err != nil {
		log.Printf("tui: read heading: %v", err)
	} else if ok && strings.TrimSpace(saved) != "" {
		heading = saved
	}

	clock := tui.NewClockModel(tui.ClockConfig{
		Engine:        engine,
		Field:         particles.NewField(particles.Config{Style: style}, nil),
		Theme:         themeState,
		Prefs:         store,
		Visitors:      source,
		Heading:       heading,
		FrameInterval: cfg.FrameInterval,
		Intensity:     cfg.Intensity,
		Animations:    cfg.Animations,
		AltScreen:     cfg.Fullscreen,
	})
	defer clock.Close()

	app := tui.NewApp(tui.NewClockPage(clock))

	var opts []tea.ProgramOption
	if cfg.Fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(app, opts...)

	if cfg.Control {
		ctl := socketrpc.NewServer(cfg.ControlSocket, tui.NewRemote(p.Send, 0))
		if err := ctl.Start(); err != nil {
			log.Printf("control: disabled: %v", err)
		} else {
			defer ctl.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
			return fmt.Errorf("TUI requires a real terminal")
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// openStateStoreOrMemory opens the configured backend, or an in-memory store
// when it cannot be opened. The clock then runs but forgets state on exit.
func openStateStoreOrMemory(cfg appConfig) model.StateStore {
	store, err := openStateStore(cfg)
	if err != nil {
		log.Printf("state: unavailable, running in memory: %v", err)
		return statefile.NewMemory()
	}
	return store
}

// openStateStore opens the configured local state backend.
func openStateStore(cfg appConfig) (model.StateStore, error) {
	switch cfg.StateBackend {
	case backendDuckDB:
		store, err := duckdb.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize DuckDB: %w", err)
		}
		return store, nil
	default:
		store, err := statefile.Open(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open state file: %w", err)
		}
		return store, nil
	}
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "hourglass")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "hourglass.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
}
