package duckdb

import (
	"log"
	"sync"
	"time"
)

// SessionCleanerConfig holds configuration for the session cleaner.
type SessionCleanerConfig struct {
	TTL      time.Duration
	Interval time.Duration
}

// SessionCleaner periodically forgets visitor sessions older than the TTL.
type SessionCleaner struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSessionCleaner starts a cleaner. Returns nil when the TTL is 0
// (sessions are kept forever).
func NewSessionCleaner(store *Store, conf SessionCleanerConfig) *SessionCleaner {
	if conf.TTL <= 0 {
		return nil
	}
	if conf.Interval <= 0 {
		conf.Interval = time.Hour
	}

	sc := &SessionCleaner{
		store:    store,
		ttl:      conf.TTL,
		interval: conf.Interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}

	// Catch up after downtime.
	sc.cleanup()

	sc.wg.Add(1)
	go sc.tickLoop()

	return sc
}

func (sc *SessionCleaner) tickLoop() {
	defer sc.wg.Done()
	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sc.cleanup()
		case <-sc.done:
			return
		}
	}
}

func (sc *SessionCleaner) cleanup() {
	cutoff := sc.now().Add(-sc.ttl)

	rows, err := sc.store.DeleteSessionsBefore(cutoff)
	if err != nil {
		log.Printf("duckdb: session cleanup error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("duckdb: session cleanup forgot %d sessions (older than %s)", rows, sc.ttl)
	}
}

// Stop signals the cleaner to stop and waits for it to finish.
func (sc *SessionCleaner) Stop() {
	sc.stopOnce.Do(func() {
		close(sc.done)
		sc.wg.Wait()
	})
}
