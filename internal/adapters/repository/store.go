// Package repository defines the result record store interface and its
// implementations.
package repository

import (
	"context"

	"github.com/okian/gridbook/internal/domain/model"
)

// Store provides idempotent-by-RecordID persistence of result records.
//
// Upsert is the only write: a record with an existing RecordID replaces
// the stored value atomically, so two live records can never share an ID
// and re-ingesting a batch converges instead of accumulating. If writes
// for the same RecordID race, the stored value is one of the complete
// record states, never a field-level interleaving.
type Store interface {
	// Upsert writes rec, replacing any record with the same RecordID.
	Upsert(ctx context.Context, rec model.ResultRecord) error

	// QueryAll returns a snapshot of every stored record.
	QueryAll(ctx context.Context) ([]model.ResultRecord, error)

	// QueryByEvent returns a snapshot of the records for one event name.
	QueryByEvent(ctx context.Context, eventName string) ([]model.ResultRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int

	// Close releases store resources.
	Close() error
}
