package main

import (
	"time"

	"github.com/tinytelemetry/hourglass/internal/duckdb"
	"github.com/tinytelemetry/hourglass/internal/model"
)

const (
	defaultBindHost        = "127.0.0.1"
	defaultAPIPort         = model.DefaultAPIPort
	defaultQueryTimeout    = duckdb.DefaultQueryTimeout
	defaultSessionTTL      = model.DefaultVisitorSessionTTL
	defaultCleanupInterval = time.Hour
	defaultBackupInterval  = 6 * time.Hour
	defaultBackupKeepLast  = 24
)

// appConfig is the counter service runtime configuration.
type appConfig struct {
	APIPort         int           `mapstructure:"api-port"`
	APIAddr         string        `mapstructure:"api-addr"`
	DBPath          string        `mapstructure:"db-path"`
	SessionTTL      time.Duration `mapstructure:"session-ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup-interval"`
	QueryTimeout    time.Duration `mapstructure:"query-timeout"`
	BackupEnabled   bool          `mapstructure:"backup-enabled"`
	BackupInterval  time.Duration `mapstructure:"backup-interval"`
	BackupDir       string        `mapstructure:"backup-dir"`
	BackupKeepLast  int           `mapstructure:"backup-keep-last"`
	ConfigPath      string        `mapstructure:"-"` // not from config file
}
