// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	submissionqueue "github.com/okian/scoutboard/internal/adapters/mq/queue"
	workerpool "github.com/okian/scoutboard/internal/adapters/mq/worker"
	repository "github.com/okian/scoutboard/internal/adapters/repository"
	"github.com/okian/scoutboard/internal/domain/analysis"
	"github.com/okian/scoutboard/internal/domain/dedupe"
	"github.com/okian/scoutboard/internal/domain/dimension"
	"github.com/okian/scoutboard/internal/domain/enrich"
	"github.com/okian/scoutboard/internal/domain/model"
	"github.com/okian/scoutboard/internal/domain/trend"
	"github.com/okian/scoutboard/internal/domain/types"
	"github.com/okian/scoutboard/pkg/logger"
	"github.com/okian/scoutboard/pkg/metrics"
)

// ErrUnknownDimension is returned by Breakdown for an unrecognized grouping.
var ErrUnknownDimension = errors.New("unknown breakdown dimension")

// Service implements the API dependencies for the candidate analytics system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	queue    submissionqueue.Queue
	enricher enrich.Enricher
	pool     *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	shardCount     int
	aiThreshold    float64
	humanThreshold float64

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of candidate store shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithFilterThresholds sets the enrichment filter thresholds.
func WithFilterThresholds(ai, human float64) Option {
	return func(s *Service) {
		if ai > 0 {
			s.aiThreshold = ai
		}
		if human > 0 {
			s.humanThreshold = human
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      100000,
		dedupeSize:     50000,
		shardCount:     8,
		aiThreshold:    5.0,
		humanThreshold: 5.0,
		stopCh:         make(chan struct{}),
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

	s.logger.Info(ctx, "starting analytics service...")

	s.store = repository.NewMemStore(
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = submissionqueue.NewInMemoryQueue(
		submissionqueue.WithCapacity(s.queueSize),
		submissionqueue.WithBufferSize(s.queueSize),
	)
	s.enricher = enrich.NewRecordEnricher(
		enrich.WithFilterThresholds(s.aiThreshold, s.humanThreshold),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.enricher, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("shardCount", s.shardCount),
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

	s.logger.Info(context.Background(), "stopping analytics service...")

	if s.pool != nil {
		s.pool.Stop()
	}

	if q, ok := s.queue.(*submissionqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "analytics service stopped")
}

// SeenAndRecord atomically checks if a candidate id was seen and records
// it if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordCandidateDuplicate()
	}
	return seen
}

// Unrecord removes a candidate ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a candidate for asynchronous enrichment.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool {
	s.logger.Debug(ctx, "received submission",
		logger.String("candidateID", sub.ID),
		logger.Float64("aiScore", sub.AIScore),
		logger.Float64("humanScore", sub.HumanScore),
	)

	ok := s.queue.Enqueue(ctx, sub)
	if ok {
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// Analysis returns the AI-vs-human discrepancy summary over every scored
// candidate currently stored.
func (s *Service) Analysis(ctx context.Context) (types.ScoreAnalysis, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	}()

	snapshot := s.store.Snapshot(ctx)
	metrics.UpdateSnapshotSize(len(snapshot))

	summary := analysis.Compute(snapshot)
	return types.ScoreAnalysis{
		AverageDiscrepancy: summary.AverageDiscrepancy,
		MaxDiscrepancy:     summary.MaxDiscrepancy,
		MinDiscrepancy:     summary.MinDiscrepancy,
		TotalCandidates:    summary.TotalCandidates,
		AIHigherCount:      summary.AIHigherCount,
		HumanHigherCount:   summary.HumanHigherCount,
		EqualScoresCount:   summary.EqualScoresCount,
	}, nil
}

// Trends returns the four weekly trend buckets anchored at "at". A zero
// anchor means now. The store is pre-filtered to the window's span so the
// fold only walks records that can possibly land in a bucket.
func (s *Service) Trends(ctx context.Context, at time.Time) ([]types.TrendBucket, error) {
	start := time.Now()
	defer func() {
		metrics.RecordTrendLatency(float64(time.Since(start).Milliseconds()))
	}()

	if at.IsZero() {
		at = time.Now()
	}

	since := trend.WeekStart(at).AddDate(0, 0, -7*(trend.Weeks-1))
	records := s.store.RecentSince(ctx, since)

	buckets := trend.Compute(records, at)
	out := make([]types.TrendBucket, len(buckets))
	for i, b := range buckets {
		out[i] = types.TrendBucket{
			WeekStart:                  b.WeekStart,
			TotalCandidates:            b.TotalCandidates,
			ScoredCandidates:           b.ScoredCandidates,
			AverageDiscrepancy:         b.AverageDiscrepancy,
			AverageAbsoluteDiscrepancy: b.AverageAbsoluteDiscrepancy,
			AIHigherCount:              b.AIHigherCount,
			HumanHigherCount:           b.HumanHigherCount,
			EqualCount:                 b.EqualCount,
			MaxDiscrepancy:             b.MaxDiscrepancy,
			MinDiscrepancy:             b.MinDiscrepancy,
			AIAccuracy:                 b.AIAccuracy,
		}
	}
	return out, nil
}

// Breakdown groups all candidates by the requested dimension.
func (s *Service) Breakdown(ctx context.Context, by string) (map[string]types.DimensionStats, error) {
	start := time.Now()
	defer func() {
		metrics.RecordBreakdownLatency(float64(time.Since(start).Milliseconds()))
	}()

	var key dimension.KeyFunc
	switch by {
	case "role":
		key = dimension.ByRole
	case "source":
		key = dimension.BySource
	case "stage":
		key = dimension.ByStage
	case "interview":
		key = dimension.ByInterviewStatus
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, by)
	}

	groups := dimension.GroupBy(s.store.Snapshot(ctx), key)
	out := make(map[string]types.DimensionStats, len(groups))
	for name, g := range groups {
		out[name] = types.DimensionStats{
			Total:             g.Total,
			ScoredCount:       g.ScoredCount,
			AvgAIScore:        g.AvgAIScore,
			AvgHumanScore:     g.AvgHumanScore,
			AvgAbsDiscrepancy: g.AvgAbsDiscrepancy,
		}
	}
	return out, nil
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
		"dedupeSize":  s.dedupeSize,
		"shardCount":  s.shardCount,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalCandidates := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalCandidates"] = totalCandidates
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalCandidates(totalCandidates)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
