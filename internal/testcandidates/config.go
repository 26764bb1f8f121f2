package testcandidates

import "time"

// Config holds configuration for the candidate seed run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumCandidates int           // Number of candidates to generate
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for generated candidates
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// Candidate represents a candidate submission payload.
type Candidate struct {
	CandidateID     string  `json:"candidate_id"`
	AIScore         float64 `json:"ai_score"`
	HumanScore      float64 `json:"human_score"`
	DateAdded       string  `json:"date_added,omitempty"`
	Role            string  `json:"role"`
	Source          string  `json:"source"`
	Status          string  `json:"status"`
	InterviewStatus string  `json:"interview_status"`
}

// Analysis mirrors the GET /analysis response.
type Analysis struct {
	AverageDiscrepancy float64 `json:"average_discrepancy"`
	MaxDiscrepancy     float64 `json:"max_discrepancy"`
	MinDiscrepancy     float64 `json:"min_discrepancy"`
	TotalCandidates    int     `json:"total_candidates"`
	AIHigherCount      int     `json:"ai_higher_count"`
	HumanHigherCount   int     `json:"human_higher_count"`
	EqualScoresCount   int     `json:"equal_scores_count"`
}

// TrendBucket mirrors one entry of the GET /trends response.
type TrendBucket struct {
	WeekStart        time.Time `json:"week_start"`
	TotalCandidates  int       `json:"total_candidates"`
	ScoredCandidates int       `json:"scored_candidates"`
	AIAccuracy       float64   `json:"ai_accuracy"`
}

// DimensionStats mirrors one group of the GET /breakdown response.
type DimensionStats struct {
	Total             int     `json:"total"`
	ScoredCount       int     `json:"scored_count"`
	AvgAIScore        float64 `json:"avg_ai_score"`
	AvgHumanScore     float64 `json:"avg_human_score"`
	AvgAbsDiscrepancy float64 `json:"avg_abs_discrepancy"`
}

// AckResponse represents the response from candidate submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds seed run statistics.
type Stats struct {
	CandidatesGenerated  int
	CandidatesSubmitted  int
	CandidatesSuccessful int
	CandidatesDuplicate  int
	CandidatesFailed     int
	TrendBuckets         int
	BreakdownGroups      int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
