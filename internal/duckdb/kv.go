package duckdb

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tinytelemetry/hourglass/internal/model"
)

var _ model.StateStore = (*Store)(nil)

// timerRowID is the key of the single persisted timer record.
const timerRowID = 1

func (s *Store) LoadTimerState() (model.TimerState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var payload string
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM timer_state WHERE id = ?", timerRowID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TimerState{}, false, nil
	}
	if err != nil {
		return model.TimerState{}, false, fmt.Errorf("duckdb: load timer state: %w", err)
	}

	var st model.TimerState
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return model.TimerState{}, false, fmt.Errorf("duckdb: decode timer state: %w", err)
	}
	return st, true, nil
}

func (s *Store) SaveTimerState(st model.TimerState) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("duckdb: encode timer state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err = s.db.ExecContext(ctx, `INSERT INTO timer_state (id, payload, saved_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		timerRowID, string(payload), st.SavedAt.UTC())
	if err != nil {
		return fmt.Errorf("duckdb: save timer state: %w", err)
	}
	return nil
}

func (s *Store) ClearTimerState() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM timer_state WHERE id = ?", timerRowID); err != nil {
		return fmt.Errorf("duckdb: clear timer state: %w", err)
	}
	return nil
}

func (s *Store) Preference(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var v string
	err := s.db.QueryRowContext(ctx, "SELECT pref_value FROM preferences WHERE pref_key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("duckdb: read preference %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	_, err := s.db.ExecContext(ctx, `INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
		ON CONFLICT (pref_key) DO UPDATE SET pref_value = excluded.pref_value`, key, value)
	if err != nil {
		return fmt.Errorf("duckdb: write preference %q: %w", key, err)
	}
	return nil
}
