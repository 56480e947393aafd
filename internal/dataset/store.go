package dataset

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/nri-explorer/internal/domain"
)

// ErrNotLoaded is returned while no dataset snapshot is available and no
// load attempt has failed yet.
var ErrNotLoaded = errors.New("dataset not loaded yet")

// Store holds the session's dataset snapshot. The full table is replaced
// atomically on load and never mutated in place; readers get copies.
type Store struct {
	mu       sync.RWMutex
	records  []domain.CountyRecord
	loadedAt time.Time
	source   string
	lastErr  error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// SetRecords replaces the snapshot and clears any previous load error.
func (s *Store) SetRecords(records []domain.CountyRecord, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.loadedAt = domain.Now()
	s.source = source
	s.lastErr = nil
}

// SetError records a failed load. An existing snapshot is kept; the error
// only surfaces through CheckReadiness while no snapshot exists.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// Snapshot returns a copy of the loaded records and whether a snapshot
// exists.
func (s *Store) Snapshot() ([]domain.CountyRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return nil, false
	}
	out := make([]domain.CountyRecord, len(s.records))
	copy(out, s.records)
	return out, true
}

// Meta reports the snapshot size, load time, and source.
func (s *Store) Meta() (rows int, loadedAt time.Time, source string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), s.loadedAt, s.source
}

// CheckReadiness returns nil once a snapshot is loaded, the last load error
// when one exists, or ErrNotLoaded before the first attempt completes.
func (s *Store) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records != nil {
		return nil
	}
	if s.lastErr != nil {
		return s.lastErr
	}
	return ErrNotLoaded
}
