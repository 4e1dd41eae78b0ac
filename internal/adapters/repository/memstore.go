package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/pkg/metrics"
)

// MemStore is an in-memory Store keyed by RecordID with a per-session
// partition index mirroring the locality of the external store. It is
// the default store for local runs and tests.
type MemStore struct {
	mu       sync.RWMutex
	records  map[string]model.ResultRecord
	sessions map[model.SessionID]map[string]struct{} // partition index
	byEvent  map[string]map[string]struct{}
	closed   bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		records:  make(map[string]model.ResultRecord),
		sessions: make(map[model.SessionID]map[string]struct{}),
		byEvent:  make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upsert writes rec under its RecordID, replacing any prior value as one
// atomic operation under the store lock.
func (s *MemStore) Upsert(ctx context.Context, rec model.ResultRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpsertLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		metrics.RecordUpsertError()
		return ErrClosed
	}

	if prior, exists := s.records[rec.RecordID]; exists {
		// Re-ingest: drop the prior index entries in case the event
		// label changed under the same identity.
		s.unindex(prior)
		metrics.RecordOverwrite()
	}

	s.records[rec.RecordID] = rec
	s.index(rec)
	metrics.RecordUpsert()
	metrics.UpdateStoreRecords(len(s.records))
	return nil
}

// QueryAll returns a copy of every stored record in chronological
// order. Map iteration order must never leak into a snapshot: two reads
// of an unchanged store have to observe the same sequence.
func (s *MemStore) QueryAll(ctx context.Context) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ResultRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return model.ChronologicalLess(out[i], out[j])
	})
	return out, nil
}

// QueryByEvent returns a copy of the records whose EventName matches,
// in chronological order.
func (s *MemStore) QueryByEvent(ctx context.Context, eventName string) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byEvent[eventName]
	out := make([]model.ResultRecord, 0, len(ids))
	for id := range ids {
		out = append(out, s.records[id])
	}
	sort.Slice(out, func(i, j int) bool {
		return model.ChronologicalLess(out[i], out[j])
	})
	return out, nil
}

// Count returns the number of stored records.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close marks the store closed; further upserts fail with ErrClosed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// index adds rec to the partition and event indexes. Caller holds mu.
func (s *MemStore) index(rec model.ResultRecord) {
	part, ok := s.sessions[rec.Session]
	if !ok {
		part = make(map[string]struct{})
		s.sessions[rec.Session] = part
	}
	part[rec.RecordID] = struct{}{}

	evt, ok := s.byEvent[rec.EventName]
	if !ok {
		evt = make(map[string]struct{})
		s.byEvent[rec.EventName] = evt
	}
	evt[rec.RecordID] = struct{}{}
}

// unindex removes rec from the partition and event indexes. Caller holds mu.
func (s *MemStore) unindex(rec model.ResultRecord) {
	if part, ok := s.sessions[rec.Session]; ok {
		delete(part, rec.RecordID)
		if len(part) == 0 {
			delete(s.sessions, rec.Session)
		}
	}
	if evt, ok := s.byEvent[rec.EventName]; ok {
		delete(evt, rec.RecordID)
		if len(evt) == 0 {
			delete(s.byEvent, rec.EventName)
		}
	}
}
