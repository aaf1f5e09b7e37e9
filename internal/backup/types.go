package backup

import "time"

// Config controls periodic snapshots of the visitor counter database.
type Config struct {
	Enabled  bool
	Interval time.Duration
	Dir      string
	KeepLast int
	// Prefix names the snapshot files: <prefix>-<timestamp>.duckdb.
	Prefix string
}

// Snapshotter is the minimal DB snapshot contract used by Manager.
type Snapshotter interface {
	DBPath() string
	SnapshotTo(dstPath string) error
}
