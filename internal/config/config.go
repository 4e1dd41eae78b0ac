// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
	"time"
)

// Store backend names accepted by the Store field.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Season selects the season ingested by scheduled producer runs.
	Season int `koanf:"season"`

	// SourceBaseURL points at the upstream results provider.
	SourceBaseURL string `koanf:"source_base_url"`

	// FetchTimeoutMS bounds one upstream fetch round-trip.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// QueueSize bounds the in-memory ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of upsert workers.
	WorkerCount int `koanf:"worker_count"`

	// Store selects the record store backend: memory or sqlite.
	Store string `koanf:"store"`

	// SQLitePath is the database file used when Store is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// IngestIntervalMS schedules automatic producer runs; 0 disables
	// them (ingestion is then triggered via the API only).
	IngestIntervalMS int `koanf:"ingest_interval_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		Season:            time.Now().Year(),
		SourceBaseURL:     "http://localhost:8091",
		FetchTimeoutMS:    30_000,
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU() * 2,
		Store:             StoreMemory,
		SQLitePath:        "gridbook.db",
		MaxStandingsLimit: 100,
		IngestIntervalMS:  0,
	}
}
