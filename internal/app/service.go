// Package app provides the core service that wires the ingestion
// pipeline to the record store and implements the dependencies required
// by the HTTP API.
package app

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/gridbook/internal/adapters/mq/queue"
	workerpool "github.com/okian/gridbook/internal/adapters/mq/worker"
	"github.com/okian/gridbook/internal/adapters/repository"
	"github.com/okian/gridbook/internal/adapters/source"
	"github.com/okian/gridbook/internal/config"
	"github.com/okian/gridbook/internal/domain/eventview"
	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/internal/domain/standings"
	"github.com/okian/gridbook/internal/ingest"
	"github.com/okian/gridbook/pkg/logger"
	"github.com/okian/gridbook/pkg/metrics"
)

// Service implements the results pipeline behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	fetcher    ingest.Fetcher
	taskQueue  *queue.InMemoryQueue
	registry   *ingest.Registry
	pipeline   *ingest.Pipeline
	workerPool *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	storeKind      string
	sqlitePath     string
	sourceBaseURL  string
	fetchTimeout   time.Duration
	season         int
	ingestInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 2,
		queueSize:     10_000,
		storeKind:     config.StoreMemory,
		sqlitePath:    "gridbook.db",
		sourceBaseURL: "http://localhost:8091",
		fetchTimeout:  30 * time.Second,
		season:        time.Now().Year(),
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting results service...")

	if s.store == nil {
		switch s.storeKind {
		case config.StoreSQLite:
			store, err := repository.OpenSQLite(s.sqlitePath)
			if err != nil {
				return fmt.Errorf("open sqlite store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
		default:
			s.store = repository.NewMemStore()
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	if s.fetcher == nil {
		s.fetcher = source.NewHTTPSource(s.sourceBaseURL,
			source.WithTimeout(s.fetchTimeout),
		)
	}

	s.taskQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
	)
	s.registry = ingest.NewRegistry()
	s.pipeline = ingest.NewPipeline(s.fetcher, s.taskQueue, s.registry,
		ingest.WithLogger(s.logger.Named("ingest")),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.taskQueue, s.store, s.registry)
	s.workerPool.Start(ctx)

	if s.ingestInterval > 0 {
		go s.runScheduledIngest(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "results service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.String("store", s.storeKind),
		logger.Int("season", s.season),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping results service...")

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	if s.taskQueue != nil {
		_ = s.taskQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "results service stopped")
}

// runScheduledIngest triggers a producer run for the configured season
// on the configured cadence.
func (s *Service) runScheduledIngest(ctx context.Context) {
	ticker := time.NewTicker(s.ingestInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if _, err := s.IngestSeason(ctx, s.season); err != nil {
				s.logger.Error(ctx, "scheduled ingest failed", logger.Error(err))
			}
		}
	}
}

// IngestSeason runs one producer batch for the season and returns its
// report.
func (s *Service) IngestSeason(ctx context.Context, season int) (ingest.Report, error) {
	s.mu.RLock()
	pipeline := s.pipeline
	started := s.started
	s.mu.RUnlock()

	if !started {
		return ingest.Report{}, ErrNotStarted
	}
	return pipeline.Run(ctx, season)
}

// EventView computes one event's per-session view from a fresh store
// snapshot.
func (s *Service) EventView(ctx context.Context, eventName string) (model.EventView, error) {
	records, err := s.store.QueryByEvent(ctx, eventName)
	if err != nil {
		return model.EventView{}, fmt.Errorf("query event %q: %w", eventName, err)
	}
	return eventview.Compute(records, eventName), nil
}

// Standings computes the season standings from a fresh store snapshot.
func (s *Service) Standings(ctx context.Context) ([]model.DriverStanding, error) {
	records, err := s.store.QueryAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query all records: %w", err)
	}
	return standings.Compute(records), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"store":       s.storeKind,
		"season":      s.season,
	}

	if s.started {
		queueLen := s.taskQueue.Len(ctx)
		totalRecords := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalRecords"] = totalRecords
		stats["pendingBatches"] = s.registry.Pending()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreRecords(totalRecords)
	}

	return stats
}
