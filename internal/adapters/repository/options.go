// Package repository defines the result record store interface and its
// implementations.
package repository

import "github.com/okian/gridbook/internal/domain/model"

// MemOption applies a configuration option to the MemStore.
type MemOption func(*MemStore)

// WithInitialCapacity pre-sizes the record map for an expected season.
func WithInitialCapacity(capacity int) MemOption {
	return func(s *MemStore) {
		if capacity > 0 {
			s.records = make(map[string]model.ResultRecord, capacity)
		}
	}
}
