// Package app provides the core service that wires the ingestion
// pipeline to the record store and implements the dependencies required
// by the HTTP API.
package app

import (
	"time"

	"github.com/okian/gridbook/internal/adapters/repository"
	"github.com/okian/gridbook/internal/ingest"
	"github.com/okian/gridbook/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of upsert workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingestion queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreKind selects the store backend and, for sqlite, its path.
func WithStoreKind(kind, sqlitePath string) Option {
	return func(s *Service) {
		if kind != "" {
			s.storeKind = kind
		}
		if sqlitePath != "" {
			s.sqlitePath = sqlitePath
		}
	}
}

// WithStore injects a pre-built store, overriding WithStoreKind.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFetcher injects a raw result source, overriding the HTTP source.
func WithFetcher(fetcher ingest.Fetcher) Option {
	return func(s *Service) {
		if fetcher != nil {
			s.fetcher = fetcher
		}
	}
}

// WithSourceBaseURL points the HTTP source at the upstream provider.
func WithSourceBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.sourceBaseURL = baseURL
		}
	}
}

// WithFetchTimeout bounds one upstream fetch round-trip.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
	}
}

// WithSeason sets the season used by scheduled producer runs.
func WithSeason(season int) Option {
	return func(s *Service) {
		if season > 0 {
			s.season = season
		}
	}
}

// WithIngestInterval schedules automatic producer runs; zero disables
// them.
func WithIngestInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.ingestInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
