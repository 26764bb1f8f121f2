// Package enrich turns raw submissions into storable candidate records.
package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scoutboard/internal/domain/model"
)

// Default enrichment configuration constants.
const (
	defaultAIFilterThreshold    = 5.0
	defaultHumanFilterThreshold = 5.0
)

// Option applies a configuration option to the RecordEnricher.
type Option func(*RecordEnricher)

// WithFilterThresholds sets the score thresholds behind the derived
// PassedAIFilter / PassedHumanFilter flags.
func WithFilterThresholds(ai, human float64) Option {
	return func(e *RecordEnricher) {
		if ai > 0 {
			e.aiThreshold = ai
		}
		if human > 0 {
			e.humanThreshold = human
		}
	}
}

// WithIDGenerator overrides how missing candidate IDs are assigned.
// Used by tests that need deterministic IDs.
func WithIDGenerator(gen func() string) Option {
	return func(e *RecordEnricher) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Enricher converts a submission into a candidate record.
type Enricher interface {
	// Enrich derives the stored record, honoring ctx for cancellation.
	Enrich(ctx context.Context, s model.Submission) (model.CandidateRecord, error)
}

// RecordEnricher implements Enricher: it parses the submission date,
// assigns an ID when the client omitted one, clamps scores into the
// model range and derives the filter flags.
type RecordEnricher struct {
	aiThreshold    float64
	humanThreshold float64
	newID          func() string
}

// NewRecordEnricher creates an enricher with configuration options.
func NewRecordEnricher(opts ...Option) *RecordEnricher {
	e := &RecordEnricher{
		aiThreshold:    defaultAIFilterThreshold,
		humanThreshold: defaultHumanFilterThreshold,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich derives the stored record for s.
//
// An empty or unparseable DateAdded leaves the record dateless rather
// than failing; such records are simply absent from time-windowed
// views. Score zero passes through untouched: it is the "not yet
// scored" sentinel, not a minimum.
func (e *RecordEnricher) Enrich(ctx context.Context, s model.Submission) (model.CandidateRecord, error) {
	select {
	case <-ctx.Done():
		return model.CandidateRecord{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	rec := model.CandidateRecord{
		ID:              s.ID,
		AIScore:         clampScore(s.AIScore),
		HumanScore:      clampScore(s.HumanScore),
		Role:            s.Role,
		Source:          s.Source,
		Status:          s.Status,
		InterviewStatus: s.InterviewStatus,
	}

	if rec.ID == "" {
		rec.ID = e.newID()
	}

	if s.DateAdded != "" {
		if t, err := time.Parse(time.RFC3339, s.DateAdded); err == nil {
			rec.DateAdded = t
		}
	}

	rec.PassedAIFilter = rec.AIScore >= e.aiThreshold
	rec.PassedHumanFilter = rec.HumanScore >= e.humanThreshold

	return rec, nil
}

// clampScore forces a score into [MinScore, MaxScore]. Zero stays zero.
func clampScore(v float64) float64 {
	switch {
	case v < model.MinScore:
		return model.MinScore
	case v > model.MaxScore:
		return model.MaxScore
	default:
		return v
	}
}
