// Package eventlog appends timer transitions to a CSV file.
package eventlog

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/tinytelemetry/hourglass/internal/timer"
)

// Row is one CSV record.
type Row struct {
	At        string `csv:"at"`
	Event     string `csv:"event"`
	Remaining int64  `csv:"remaining"`
	Duration  int64  `csv:"duration"`
	Display   string `csv:"display"`
}

// RowFromEvent converts an engine event into a CSV row.
func RowFromEvent(ev timer.Event) Row {
	return Row{
		At:        ev.At.UTC().Format(time.RFC3339),
		Event:     string(ev.Kind),
		Remaining: ev.Remaining,
		Duration:  ev.Duration,
		Display:   timer.FormatRemaining(ev.Remaining),
	}
}

// Recorder appends rows to one file. A nil Recorder discards everything.
type Recorder struct {
	mu            sync.Mutex
	file          *os.File
	headerWritten bool
}

// Open opens path for appending. An empty path disables the log and returns
// a nil Recorder.
func Open(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("eventlog: creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("eventlog: stat %s: %w", path, err)
	}
	return &Recorder{file: f, headerWritten: info.Size() > 0}, nil
}

// Write appends one row; the header goes out with the first row of a new file.
func (r *Recorder) Write(row Row) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records := []Row{row}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("eventlog: writing row: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
		return fmt.Errorf("eventlog: writing row: %w", err)
	}
	return nil
}

// Observe is a timer observer. Write failures are logged.
func (r *Recorder) Observe(ev timer.Event) {
	if r == nil {
		return
	}
	if err := r.Write(RowFromEvent(ev)); err != nil {
		log.Printf("eventlog: %v", err)
	}
}

// ReadAll parses every row of a log file.
func ReadAll(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("eventlog: opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("eventlog: parsing %s: %w", path, err)
	}
	return rows, nil
}

// Close closes the file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
