package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/gridbook/internal/adapters/mq/queue"
	"github.com/okian/gridbook/internal/domain/normalize"
	"github.com/okian/gridbook/pkg/logger"
	"github.com/okian/gridbook/pkg/metrics"
)

// Fetcher is the upstream raw result source the pipeline consumes.
type Fetcher interface {
	FetchSeasonResults(ctx context.Context, season int) ([]normalize.RawRecord, error)
}

// Enqueuer hands normalized records to the upsert workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, t queue.Task) bool
}

// Report is the outcome of one producer run. Rejected records failed
// normalization (and carry their source position); Failed records failed
// their upsert. Neither aborts the rest of the batch.
type Report struct {
	BatchID   string             `json:"batch_id"`
	Season    int                `json:"season"`
	Fetched   int                `json:"fetched"`
	Queued    int                `json:"queued"`
	Succeeded int                `json:"succeeded"`
	Rejected  []normalize.Reject `json:"-"`
	Failed    []FailedRecord     `json:"-"`

	// Serialized views of the error slices for API consumers.
	RejectedPositions []int    `json:"rejected_positions"`
	FailedRecordIDs   []string `json:"failed_record_ids"`
}

// Pipeline runs producer batches against a fetcher, a normalizer, and
// the worker queue.
type Pipeline struct {
	fetcher    Fetcher
	normalizer *normalize.Normalizer
	enqueuer   Enqueuer
	registry   *Registry
	logger     logger.Logger
}

// NewPipeline wires a pipeline with configuration options.
func NewPipeline(fetcher Fetcher, enqueuer Enqueuer, registry *Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:    fetcher,
		normalizer: normalize.New(),
		enqueuer:   enqueuer,
		registry:   registry,
		logger:     logger.Get().Named("ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one producer run for the season. A fetch failure aborts
// the run; normalization rejects and upsert failures are collected in
// the report and never abort the remaining records.
func (p *Pipeline) Run(ctx context.Context, season int) (Report, error) {
	fetchStart := time.Now()
	raws, err := p.fetcher.FetchSeasonResults(ctx, season)
	metrics.RecordFetchLatency(float64(time.Since(fetchStart).Milliseconds()))
	if err != nil {
		metrics.RecordFetchError()
		metrics.RecordErrorByComponent("ingest", "fetch_error")
		return Report{Season: season}, fmt.Errorf("fetch season %d: %w", season, err)
	}

	records, rejects := p.normalizer.NormalizeAll(raws, season)
	for _, rej := range rejects {
		metrics.RecordNormalizeReject()
		p.logger.Warn(ctx, "record rejected during normalization",
			logger.Int("position", rej.Pos),
			logger.Error(rej.Err),
		)
	}

	batchID := p.registry.Open(len(records))
	queued := 0
	for _, rec := range records {
		task := queue.Task{Record: rec, BatchID: batchID}
		if !p.enqueuer.Enqueue(ctx, task) {
			// Backpressure counts as a failed record so the batch
			// accounting still drains; the next run retries it.
			p.registry.Failure(batchID, rec.RecordID, ErrBackpressure)
			continue
		}
		queued++
	}

	succeeded, failed, waitErr := p.registry.Wait(ctx, batchID)
	if waitErr != nil {
		return Report{BatchID: batchID, Season: season}, fmt.Errorf("batch %s interrupted: %w", batchID, waitErr)
	}

	metrics.RecordBatchCompleted()

	report := Report{
		BatchID:   batchID,
		Season:    season,
		Fetched:   len(raws),
		Queued:    queued,
		Succeeded: succeeded,
		Rejected:  rejects,
		Failed:    failed,
	}
	report.RejectedPositions = make([]int, 0, len(rejects))
	for _, rej := range rejects {
		report.RejectedPositions = append(report.RejectedPositions, rej.Pos)
	}
	report.FailedRecordIDs = make([]string, 0, len(failed))
	for _, f := range failed {
		report.FailedRecordIDs = append(report.FailedRecordIDs, f.RecordID)
	}

	p.logger.Info(ctx, "ingestion batch completed",
		logger.String("batchID", batchID),
		logger.Int("season", season),
		logger.Int("fetched", report.Fetched),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("rejected", len(report.Rejected)),
		logger.Int("failed", len(report.Failed)),
	)

	return report, nil
}
