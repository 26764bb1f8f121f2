// Package worker defines worker contracts for asynchronous enrichment
// and storage of candidate submissions.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/scoutboard/internal/domain/model"
	"github.com/okian/scoutboard/pkg/logger"
	"github.com/okian/scoutboard/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Submission abstracts what workers read off the queue.
type Submission = model.Submission

// Enricher derives the stored record for a submission.
type Enricher interface {
	Enrich(ctx context.Context, s model.Submission) (model.CandidateRecord, error)
}

// Upserter writes enriched records into the candidate store.
type Upserter interface {
	Upsert(ctx context.Context, rec model.CandidateRecord) (bool, error)
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Worker processes submissions using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing submissions.
type InMemoryWorker struct {
	queue    Queue
	enricher Enricher
	store    Upserter
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, enricher Enricher, store Upserter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		enricher: enricher,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-submissions:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "error processing submission", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process enriches a single submission and stores the result.
func (w *InMemoryWorker) process(ctx context.Context, s Submission) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	enrichStart := time.Now()
	rec, err := w.enricher.Enrich(ctx, s)
	metrics.RecordEnrichmentLatency(float64(time.Since(enrichStart).Milliseconds()))
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "enrichment_error")
		w.logger.Error(ctx, "enrichment failed for submission",
			logger.String("submissionID", s.ID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to enrich submission %s: %w", s.ID, err)
	}

	created, err := w.store.Upsert(ctx, rec)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		w.logger.Error(ctx, "store upsert failed for candidate",
			logger.String("candidateID", rec.ID),
			logger.Error(err),
		)
		return fmt.Errorf("store upsert failed: %w", err)
	}

	if created {
		metrics.RecordCandidateIngested()
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers sharing one queue,
// enricher and store.
func NewPool(workerCount int, queue Queue, enricher Enricher, store Upserter) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(
			queue,
			enricher,
			store,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerActiveCount(len(p.workers))
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop shuts down all workers, waiting up to poolShutdownTimeout.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), poolShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown failed", logger.Error(err))
		}
	}
	metrics.UpdateWorkerActiveCount(0)
	p.logger.Info(ctx, "worker pool stopped")
}
