// Package repository defines the candidate store interface and errors.
package repository

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/okian/scoutboard/internal/domain/model"
	"github.com/okian/scoutboard/pkg/metrics"
)

// Default store configuration constants.
const defaultShardCount = 8

// MemStore implements Store with RW-mutex shards hashed by candidate ID.
// Sharding keeps ingestion writes from serializing behind snapshot reads
// under a single lock.
type MemStore struct {
	shards []*shard
}

type shard struct {
	mu      sync.RWMutex
	records map[string]model.CandidateRecord
}

// NewMemStore creates a sharded in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &MemStore{shards: make([]*shard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]model.CandidateRecord)}
	}

	metrics.UpdateRepositoryShardCount(cfg.shardCount)
	metrics.UpdateRepositoryRecordsTotal(0)
	return s
}

// shardFor hashes id onto a shard.
func (s *MemStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Upsert inserts or replaces the record keyed by its ID.
func (s *MemStore) Upsert(_ context.Context, rec model.CandidateRecord) (bool, error) {
	if rec.ID == "" {
		return false, ErrEmptyID
	}

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(rec.ID)
	sh.mu.Lock()
	_, exists := sh.records[rec.ID]
	sh.records[rec.ID] = rec
	count := len(sh.records)
	sh.mu.Unlock()

	if !exists {
		metrics.UpdateRepositoryRecordsTotal(s.Count(context.Background()))
	}
	metrics.UpdateRepositoryRecordsPerShard(shardLabel(s, sh), count)
	return !exists, nil
}

// Get returns the record for id.
func (s *MemStore) Get(_ context.Context, id string) (model.CandidateRecord, error) {
	if id == "" {
		return model.CandidateRecord{}, ErrEmptyID
	}

	sh := s.shardFor(id)
	sh.mu.RLock()
	rec, ok := sh.records[id]
	sh.mu.RUnlock()

	if !ok {
		return model.CandidateRecord{}, ErrNotFound
	}
	return rec, nil
}

// Snapshot returns a copy of every stored record.
func (s *MemStore) Snapshot(ctx context.Context) []model.CandidateRecord {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	out := make([]model.CandidateRecord, 0, s.Count(ctx))
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.records {
			out = append(out, rec)
		}
		sh.mu.RUnlock()
	}
	return out
}

// RecentSince returns the dated records at or after since.
func (s *MemStore) RecentSince(_ context.Context, since time.Time) []model.CandidateRecord {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var out []model.CandidateRecord
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, rec := range sh.records {
			if rec.HasDate() && !rec.DateAdded.Before(since) {
				out = append(out, rec)
			}
		}
		sh.mu.RUnlock()
	}
	return out
}

// Count returns the number of stored candidates.
func (s *MemStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.records)
		sh.mu.RUnlock()
	}
	return total
}

// shardLabel returns a stable label for per-shard metrics.
func shardLabel(s *MemStore, target *shard) string {
	for i, sh := range s.shards {
		if sh == target {
			return strconv.Itoa(i)
		}
	}
	return "unknown"
}
