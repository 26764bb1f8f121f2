// Package types contains common read shapes used across the application
package types

import "time"

// ScoreAnalysis is the JSON shape of the discrepancy summary.
// TotalCandidates counts scored records only; see the analysis package.
type ScoreAnalysis struct {
	AverageDiscrepancy float64 `json:"average_discrepancy"`
	MaxDiscrepancy     float64 `json:"max_discrepancy"`
	MinDiscrepancy     float64 `json:"min_discrepancy"`
	TotalCandidates    int     `json:"total_candidates"`
	AIHigherCount      int     `json:"ai_higher_count"`
	HumanHigherCount   int     `json:"human_higher_count"`
	EqualScoresCount   int     `json:"equal_scores_count"`
}

// TrendBucket is the JSON shape of one weekly trend window.
type TrendBucket struct {
	WeekStart                  time.Time `json:"week_start"`
	TotalCandidates            int       `json:"total_candidates"`
	ScoredCandidates           int       `json:"scored_candidates"`
	AverageDiscrepancy         float64   `json:"average_discrepancy"`
	AverageAbsoluteDiscrepancy float64   `json:"average_absolute_discrepancy"`
	AIHigherCount              int       `json:"ai_higher_count"`
	HumanHigherCount           int       `json:"human_higher_count"`
	EqualCount                 int       `json:"equal_count"`
	MaxDiscrepancy             float64   `json:"max_discrepancy"`
	MinDiscrepancy             float64   `json:"min_discrepancy"`
	AIAccuracy                 float64   `json:"ai_accuracy"`
}

// DimensionStats is the JSON shape of one breakdown group.
type DimensionStats struct {
	Total             int     `json:"total"`
	ScoredCount       int     `json:"scored_count"`
	AvgAIScore        float64 `json:"avg_ai_score"`
	AvgHumanScore     float64 `json:"avg_human_score"`
	AvgAbsDiscrepancy float64 `json:"avg_abs_discrepancy"`
}
