// Package worker defines the upsert workers that drain the ingestion
// queue into the record store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/gridbook/internal/adapters/mq/queue"
	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/pkg/logger"
	"github.com/okian/gridbook/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
)

// Upserter persists one normalized record idempotently by RecordID.
type Upserter interface {
	Upsert(ctx context.Context, rec model.ResultRecord) error
}

// Reporter receives per-task outcomes so the batch that enqueued the
// task can account for it. Implemented by ingest.Registry.
type Reporter interface {
	Success(batchID, recordID string)
	Failure(batchID, recordID string, err error)
}

// Queue defines how workers receive tasks.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Task
}

// Worker drains tasks and writes records using the provided interfaces.
type Worker struct {
	queue    Queue
	upserter Upserter
	reporter Reporter
	name     string

	shutdown  chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	logger logger.Logger
}

// New creates one worker with configuration options.
func New(q Queue, upserter Upserter, reporter Reporter, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		upserter: upserter,
		reporter: reporter,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	tasks := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case task, ok := <-tasks:
			if !ok {
				return
			}
			w.processTask(ctx, task)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.closeOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processTask upserts one record and reports the outcome. A failed task
// is reported and counted, never swallowed; the rest of the batch keeps
// flowing.
func (w *Worker) processTask(ctx context.Context, task queue.Task) {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.upserter.Upsert(ctx, task.Record); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "upsert_error")
		w.logger.Error(ctx, "upsert failed",
			logger.String("recordID", task.Record.RecordID),
			logger.String("batchID", task.BatchID),
			logger.Error(err),
		)
		w.reporter.Failure(task.BatchID, task.Record.RecordID, err)
		return
	}

	w.reporter.Success(task.BatchID, task.Record.RecordID)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers over the same queue.
func NewPool(workerCount int, q Queue, upserter Upserter, reporter Reporter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = New(q, upserter, reporter,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, waiting briefly for each to finish.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.closeOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}
