// Package model contains domain models passed between layers.
package model

import "time"

// Score bounds for candidate quality scores.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Submission is the raw ingest payload accepted from clients before
// enrichment. DateAdded stays a string here; the enrichment worker
// parses it and an unparseable value simply leaves the record dateless.
type Submission struct {
	ID              string  // optional; assigned during enrichment when empty
	DateAdded       string  // RFC3339, may be empty or malformed
	AIScore         float64 // 0 means not yet scored
	HumanScore      float64 // 0 means not yet scored
	Role            string
	Source          string
	Status          string
	InterviewStatus string
}

// CandidateRecord is a hiring candidate as stored after enrichment.
//
// Score convention: AIScore and HumanScore are in [0,10] and the zero
// value means "not yet scored", never a legitimate minimum score. All
// derived analytics treat a record as scored only when both values are
// strictly positive. Do not replace the sentinel with pointers without
// migrating every consumer of Scored.
type CandidateRecord struct {
	ID        string
	DateAdded time.Time // zero value means absent or unparseable

	AIScore    float64
	HumanScore float64

	Role            string
	Source          string
	Status          string // pipeline stage, e.g. "screening", "offer"
	InterviewStatus string

	// Derived during enrichment from the configured filter thresholds.
	PassedAIFilter    bool
	PassedHumanFilter bool
}

// Scored reports whether both quality scores are present.
func (c CandidateRecord) Scored() bool {
	return c.AIScore > 0 && c.HumanScore > 0
}

// Discrepancy returns the signed AIScore - HumanScore difference.
// Positive means the AI scored the candidate higher than the reviewer.
// Only meaningful when Scored reports true.
func (c CandidateRecord) Discrepancy() float64 {
	return c.AIScore - c.HumanScore
}

// HasDate reports whether the record carries a usable pipeline-entry date.
func (c CandidateRecord) HasDate() bool {
	return !c.DateAdded.IsZero()
}
