// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/scoutboard/internal/domain/dedupe"
	"github.com/okian/scoutboard/internal/domain/model"
	"github.com/okian/scoutboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async enrichment. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, s model.Submission) bool

	// Read operations expose the analytics views.
	Analysis(ctx context.Context) (ScoreAnalysis, error)
	Trends(ctx context.Context, at time.Time) ([]TrendBucket, error)
	Breakdown(ctx context.Context, by string) (map[string]DimensionStats, error)
}

// Read shapes returned by analytics queries.
type (
	ScoreAnalysis  = types.ScoreAnalysis
	TrendBucket    = types.TrendBucket
	DimensionStats = types.DimensionStats
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	candidatesHandler *CandidatesHandler
	analysisHandler   *AnalysisHandler
	trendsHandler     *TrendsHandler
	breakdownHandler  *BreakdownHandler
	dashboardHandler  *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		candidatesHandler: NewCandidatesHandler(deps),
		analysisHandler:   NewAnalysisHandler(deps),
		trendsHandler:     NewTrendsHandler(deps),
		breakdownHandler:  NewBreakdownHandler(deps),
		dashboardHandler:  newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/candidates", MetricsMiddleware(s.candidatesHandler.HandlePostCandidate, "candidates"))
	mux.HandleFunc("/analysis", MetricsMiddleware(s.analysisHandler.HandleGetAnalysis, "analysis"))
	mux.HandleFunc("/trends", MetricsMiddleware(s.trendsHandler.HandleGetTrends, "trends"))
	mux.HandleFunc("/breakdown", MetricsMiddleware(s.breakdownHandler.HandleGetBreakdown, "breakdown"))
}

// candidateRequest mirrors the OpenAPI schema for POST /candidates.
type candidateRequest struct {
	CandidateID     string  `json:"candidate_id"`
	AIScore         float64 `json:"ai_score"`
	HumanScore      float64 `json:"human_score"`
	DateAdded       string  `json:"date_added"`
	Role            string  `json:"role"`
	Source          string  `json:"source"`
	Status          string  `json:"status"`
	InterviewStatus string  `json:"interview_status"`
}

func (c candidateRequest) validate() error {
	if strings.TrimSpace(c.CandidateID) == "" {
		return errors.New("missing candidate_id")
	}
	if c.AIScore < model.MinScore || c.AIScore > model.MaxScore {
		return errors.New("ai_score out of range [0,10]")
	}
	if c.HumanScore < model.MinScore || c.HumanScore > model.MaxScore {
		return errors.New("human_score out of range [0,10]")
	}
	// An absent date is allowed; the record is simply excluded from trends.
	if strings.TrimSpace(c.DateAdded) != "" {
		if _, err := time.Parse(time.RFC3339, c.DateAdded); err != nil {
			return errors.New("invalid date_added; must be RFC3339")
		}
	}
	return nil
}

func (c candidateRequest) submission() model.Submission {
	return model.Submission{
		ID:              strings.TrimSpace(c.CandidateID),
		DateAdded:       strings.TrimSpace(c.DateAdded),
		AIScore:         c.AIScore,
		HumanScore:      c.HumanScore,
		Role:            c.Role,
		Source:          c.Source,
		Status:          c.Status,
		InterviewStatus: c.InterviewStatus,
	}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
