// Package ingest orchestrates one producer run: fetch raw season
// results, normalize them, hand them to the upsert workers, and account
// for every record's outcome.
package ingest

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// FailedRecord identifies one record whose upsert failed within a batch.
// Succeeded records in the same batch remain committed; the failed ones
// are expected to be retried at the next producer run.
type FailedRecord struct {
	RecordID string
	Err      error
}

// Registry tracks in-flight ingestion batches. Workers mark per-record
// outcomes; the pipeline waits until its batch is drained.
type Registry struct {
	mu      sync.Mutex
	batches map[string]*batch
}

type batch struct {
	outstanding int
	succeeded   int
	failed      []FailedRecord
	done        chan struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		batches: make(map[string]*batch),
	}
}

// Open registers a new batch expecting the given number of outcomes and
// returns its id.
func (r *Registry) Open(expected int) string {
	id := uuid.NewString()

	b := &batch{
		outstanding: expected,
		done:        make(chan struct{}),
	}
	if expected <= 0 {
		close(b.done)
	}

	r.mu.Lock()
	r.batches[id] = b
	r.mu.Unlock()

	return id
}

// Success marks one record of the batch as committed.
func (r *Registry) Success(batchID, recordID string) {
	r.complete(batchID, func(b *batch) {
		b.succeeded++
	})
}

// Failure marks one record of the batch as failed, keeping its id and
// error for the batch report.
func (r *Registry) Failure(batchID, recordID string, err error) {
	r.complete(batchID, func(b *batch) {
		b.failed = append(b.failed, FailedRecord{RecordID: recordID, Err: err})
	})
}

func (r *Registry) complete(batchID string, apply func(*batch)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.batches[batchID]
	if !ok || b.outstanding <= 0 {
		return // unknown or already drained batch; nothing to account
	}
	apply(b)
	b.outstanding--
	if b.outstanding == 0 {
		close(b.done)
	}
}

// Wait blocks until the batch is drained or ctx is done, then removes
// the batch and returns its outcome.
func (r *Registry) Wait(ctx context.Context, batchID string) (succeeded int, failed []FailedRecord, err error) {
	r.mu.Lock()
	b, ok := r.batches[batchID]
	r.mu.Unlock()
	if !ok {
		return 0, nil, nil
	}

	select {
	case <-b.done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	r.mu.Lock()
	delete(r.batches, batchID)
	succeeded = b.succeeded
	failed = b.failed
	r.mu.Unlock()

	return succeeded, failed, err
}

// Pending returns the number of batches currently in flight.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}
