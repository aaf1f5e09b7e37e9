package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/hourglass/internal/model"
	"github.com/tinytelemetry/hourglass/internal/particles"
	"github.com/tinytelemetry/hourglass/internal/socketrpc"
)

const (
	defaultDuration          = model.DefaultDuration
	defaultHeading           = model.DefaultHeading
	defaultFrameInterval     = model.DefaultFrameInterval
	defaultIntensity         = model.DefaultIntensity
	defaultTheme             = model.DefaultTheme
	defaultVisitorSessionTTL = model.DefaultVisitorSessionTTL
	defaultCounterTimeout    = 5 * time.Second
	defaultChimeRepeats      = 3

	backendFile   = "file"
	backendDuckDB = "duckdb"
)

// appConfig holds the clock configuration.
type appConfig struct {
	Duration          time.Duration `mapstructure:"duration"`
	Heading           string        `mapstructure:"heading"`
	StateBackend      string        `mapstructure:"state-backend"`
	StatePath         string        `mapstructure:"state-path"`
	DBPath            string        `mapstructure:"db-path"`
	FrameInterval     time.Duration `mapstructure:"frame-interval"`
	Intensity         int           `mapstructure:"intensity"`
	Animations        bool          `mapstructure:"animations"`
	ParticleStyle     string        `mapstructure:"particle-style"`
	Fullscreen        bool          `mapstructure:"fullscreen"`
	Theme             string        `mapstructure:"theme"`
	CounterURL        string        `mapstructure:"counter-url"`
	CounterTimeout    time.Duration `mapstructure:"counter-timeout"`
	VisitorSessionTTL time.Duration `mapstructure:"visitor-session-ttl"`
	EventLog          string        `mapstructure:"event-log"`
	Chime             bool          `mapstructure:"chime"`
	ChimeRepeats      int           `mapstructure:"chime-repeats"`
	Control           bool          `mapstructure:"control"`
	ControlSocket     string        `mapstructure:"control-socket"`
	ConfigDir         string        `mapstructure:"-"`
	ConfigPath        string        `mapstructure:"-"` // not from config file
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "hourglass")
	defaultStatePath := filepath.Join(home, ".local", "state", "hourglass", "state.json")
	defaultDBPath := filepath.Join(home, ".local", "share", "hourglass", "hourglass.duckdb")

	v := viper.New()
	v.SetEnvPrefix("HOURGLASS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("duration", defaultDuration)
	v.SetDefault("heading", defaultHeading)
	v.SetDefault("state-backend", backendFile)
	v.SetDefault("state-path", defaultStatePath)
	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("frame-interval", defaultFrameInterval)
	v.SetDefault("intensity", defaultIntensity)
	v.SetDefault("animations", true)
	v.SetDefault("particle-style", "spheres")
	v.SetDefault("fullscreen", true)
	v.SetDefault("theme", defaultTheme)
	v.SetDefault("counter-url", "")
	v.SetDefault("counter-timeout", defaultCounterTimeout)
	v.SetDefault("visitor-session-ttl", defaultVisitorSessionTTL)
	v.SetDefault("event-log", "")
	v.SetDefault("chime", false)
	v.SetDefault("chime-repeats", defaultChimeRepeats)
	v.SetDefault("control", true)
	v.SetDefault("control-socket", socketrpc.DefaultSocketPath())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigDir = configDir
	if used := v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			cfg.ConfigPath = used
		}
	}

	cfg.StateBackend = strings.ToLower(strings.TrimSpace(cfg.StateBackend))
	switch cfg.StateBackend {
	case backendFile, backendDuckDB:
	default:
		return cfg, fmt.Errorf("invalid state-backend: %q (want %s or %s)", cfg.StateBackend, backendFile, backendDuckDB)
	}
	if cfg.Duration < 0 {
		return cfg, fmt.Errorf("invalid duration: %s", cfg.Duration)
	}
	if cfg.FrameInterval <= 0 {
		return cfg, fmt.Errorf("invalid frame-interval: %s", cfg.FrameInterval)
	}
	if cfg.Intensity < 0 || cfg.Intensity > 100 {
		return cfg, fmt.Errorf("invalid intensity: %d (want 0-100)", cfg.Intensity)
	}
	if _, err := particles.ParseStyle(cfg.ParticleStyle); err != nil {
		return cfg, fmt.Errorf("invalid particle-style: %q (want spheres or dots)", cfg.ParticleStyle)
	}
	if cfg.ChimeRepeats < 1 {
		return cfg, fmt.Errorf("invalid chime-repeats: %d (want >= 1)", cfg.ChimeRepeats)
	}
	if cfg.Control && strings.TrimSpace(cfg.ControlSocket) == "" {
		cfg.Control = false
	}

	// Expand ~ in paths
	cfg.StatePath = expandHome(home, cfg.StatePath)
	cfg.DBPath = expandHome(home, cfg.DBPath)
	cfg.EventLog = expandHome(home, cfg.EventLog)
	cfg.ControlSocket = expandHome(home, cfg.ControlSocket)

	return cfg, nil
}

func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
