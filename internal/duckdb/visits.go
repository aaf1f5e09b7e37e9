package duckdb

import (
	"fmt"
	"time"

	"github.com/tinytelemetry/hourglass/internal/model"
)

var _ model.VisitStore = (*Store)(nil)

const visitsCounter = "visits"

// RecordVisit counts sessionID once. A session already on record leaves the
// counter untouched and reports Counted=false.
func (s *Store) RecordVisit(sessionID string, at time.Time) (model.VisitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.VisitResult{}, fmt.Errorf("duckdb: begin visit tx: %w", err)
	}
	defer tx.Rollback()

	var seen int64
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM visitor_sessions WHERE session_id = ?", sessionID).Scan(&seen); err != nil {
		return model.VisitResult{}, fmt.Errorf("duckdb: lookup session: %w", err)
	}

	counted := seen == 0
	if counted {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO visitor_sessions (session_id, first_seen) VALUES (?, ?)", sessionID, at.UTC()); err != nil {
			return model.VisitResult{}, fmt.Errorf("duckdb: insert session: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE counters SET total = total + 1 WHERE name = ?", visitsCounter); err != nil {
			return model.VisitResult{}, fmt.Errorf("duckdb: increment visits: %w", err)
		}
	}

	var total int64
	if err := tx.QueryRowContext(ctx,
		"SELECT total FROM counters WHERE name = ?", visitsCounter).Scan(&total); err != nil {
		return model.VisitResult{}, fmt.Errorf("duckdb: read visits: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.VisitResult{}, fmt.Errorf("duckdb: commit visit: %w", err)
	}
	return model.VisitResult{Count: total, Counted: counted}, nil
}

// VisitCount returns the current counter value.
func (s *Store) VisitCount() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var total int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT total FROM counters WHERE name = ?", visitsCounter).Scan(&total); err != nil {
		return 0, fmt.Errorf("duckdb: read visits: %w", err)
	}
	return total, nil
}

// DeleteSessionsBefore forgets sessions first seen before cutoff, so those
// visitors count again. The counter itself is never decremented.
func (s *Store) DeleteSessionsBefore(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM visitor_sessions WHERE first_seen < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("duckdb: delete sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("duckdb: delete sessions rows: %w", err)
	}
	return n, nil
}
