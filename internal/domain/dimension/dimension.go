// Package dimension derives per-category candidate statistics.
//
// One GroupBy contract, parameterized by a key extractor, replaces the
// per-view role/source/stage folds so every breakdown applies the same
// filter rules. Records whose key is empty are excluded from the
// result entirely rather than grouped under a synthetic "unknown" key;
// dimension-less records must not pollute rate denominators.
package dimension

import (
	"math"
	"strings"

	"github.com/okian/scoutboard/internal/domain/model"
)

// Stats summarizes the candidates sharing one dimension value.
type Stats struct {
	Total             int
	ScoredCount       int
	AvgAIScore        float64
	AvgHumanScore     float64
	AvgAbsDiscrepancy float64
}

// KeyFunc extracts the grouping key for a record. An empty key removes
// the record from the breakdown.
type KeyFunc func(model.CandidateRecord) string

// Ready-made key extractors for the standard breakdowns.
func ByRole(r model.CandidateRecord) string            { return strings.TrimSpace(r.Role) }
func BySource(r model.CandidateRecord) string          { return strings.TrimSpace(r.Source) }
func ByStage(r model.CandidateRecord) string           { return strings.TrimSpace(r.Status) }
func ByInterviewStatus(r model.CandidateRecord) string { return strings.TrimSpace(r.InterviewStatus) }

// GroupBy partitions records by key and derives Stats per group.
// Each average divides by the count of records actually contributing
// to its numerator: AvgAIScore by records with AIScore > 0,
// AvgHumanScore by records with HumanScore > 0, AvgAbsDiscrepancy by
// records with both. A group with no contributors reports zero.
func GroupBy(records []model.CandidateRecord, key KeyFunc) map[string]Stats {
	groups := partition(records, key)
	out := make(map[string]Stats, len(groups))
	for k, group := range groups {
		out[k] = derive(group)
	}
	return out
}

// partition buckets records by key, skipping empty keys.
func partition(records []model.CandidateRecord, key KeyFunc) map[string][]model.CandidateRecord {
	groups := make(map[string][]model.CandidateRecord)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], r)
	}
	return groups
}

// derive folds one group into Stats.
func derive(group []model.CandidateRecord) Stats {
	s := Stats{Total: len(group)}

	var aiSum, humanSum, absSum float64
	var aiN, humanN int
	for _, r := range group {
		if r.AIScore > 0 {
			aiSum += r.AIScore
			aiN++
		}
		if r.HumanScore > 0 {
			humanSum += r.HumanScore
			humanN++
		}
		if r.Scored() {
			s.ScoredCount++
			absSum += math.Abs(r.Discrepancy())
		}
	}

	if aiN > 0 {
		s.AvgAIScore = aiSum / float64(aiN)
	}
	if humanN > 0 {
		s.AvgHumanScore = humanSum / float64(humanN)
	}
	if s.ScoredCount > 0 {
		s.AvgAbsDiscrepancy = absSum / float64(s.ScoredCount)
	}
	return s
}
