package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/scoutboard/internal/adapters/http/api"
	"github.com/okian/scoutboard/internal/domain/model"
	"github.com/okian/scoutboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.

type mockDeduper struct {
	seen map[string]bool
}

func (m *mockDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	if m.seen == nil {
		m.seen = make(map[string]bool)
	}
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDeduper) Unrecord(ctx context.Context, id string) {
	if m.seen != nil {
		delete(m.seen, id)
	}
}

func (m *mockDeduper) Size() int64 {
	return int64(len(m.seen))
}

type mockQueue struct {
	enqueueSuccess bool
	enqueued       []model.Submission
}

func (m *mockQueue) Enqueue(ctx context.Context, s model.Submission) bool {
	if m.enqueueSuccess {
		m.enqueued = append(m.enqueued, s)
		return true
	}
	return false
}

type mockAnalytics struct {
	analysis    types.ScoreAnalysis
	trends      []types.TrendBucket
	breakdown   map[string]types.DimensionStats
	analysisErr error
	trendsErr   error
	breakErr    error
	trendsAt    time.Time
}

func (m *mockAnalytics) Analysis(ctx context.Context) (types.ScoreAnalysis, error) {
	if m.analysisErr != nil {
		return types.ScoreAnalysis{}, m.analysisErr
	}
	return m.analysis, nil
}

func (m *mockAnalytics) Trends(ctx context.Context, at time.Time) ([]types.TrendBucket, error) {
	m.trendsAt = at
	if m.trendsErr != nil {
		return nil, m.trendsErr
	}
	return m.trends, nil
}

func (m *mockAnalytics) Breakdown(ctx context.Context, by string) (map[string]types.DimensionStats, error) {
	if m.breakErr != nil {
		return nil, m.breakErr
	}
	return m.breakdown, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// mockDependencies implements the Dependencies interface.
type mockDependencies struct {
	dedupe    *mockDeduper
	queue     *mockQueue
	analytics *mockAnalytics
}

func (m *mockDependencies) SeenAndRecord(ctx context.Context, id string) bool {
	return m.dedupe.SeenAndRecord(ctx, id)
}

func (m *mockDependencies) Unrecord(ctx context.Context, id string) {
	m.dedupe.Unrecord(ctx, id)
}

func (m *mockDependencies) Size() int64 {
	return m.dedupe.Size()
}

func (m *mockDependencies) Enqueue(ctx context.Context, s model.Submission) bool {
	return m.queue.Enqueue(ctx, s)
}

func (m *mockDependencies) Analysis(ctx context.Context) (types.ScoreAnalysis, error) {
	return m.analytics.Analysis(ctx)
}

func (m *mockDependencies) Trends(ctx context.Context, at time.Time) ([]types.TrendBucket, error) {
	return m.analytics.Trends(ctx, at)
}

func (m *mockDependencies) Breakdown(ctx context.Context, by string) (map[string]types.DimensionStats, error) {
	return m.analytics.Breakdown(ctx, by)
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		dedupe: &mockDeduper{},
		queue:  &mockQueue{enqueueSuccess: true},
		analytics: &mockAnalytics{
			breakdown: map[string]types.DimensionStats{},
		},
	}
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newMockDependencies()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{}}
		server := api.NewServer(deps, statsProvider)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/healthz", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And stats endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/stats", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And candidates endpoint should reject an empty body", func() {
				req := httptest.NewRequest("POST", "/candidates", strings.NewReader(`{}`))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And analysis endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/analysis", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And trends endpoint should be accessible", func() {
				req := httptest.NewRequest("GET", "/trends", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})

			Convey("And breakdown endpoint should require a dimension", func() {
				req := httptest.NewRequest("GET", "/breakdown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And root endpoint should catch everything else", func() {
				req := httptest.NewRequest("GET", "/unknown", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And dashboard endpoint should serve HTML with refresh control", func() {
				req := httptest.NewRequest("GET", "/dashboard", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				body := w.Body.String()
				So(body, ShouldContainSubstring, "id=\"refresh-interval\"")
				So(body, ShouldContainSubstring, "id=\"refresh-control\"")
			})
		})
	})
}

func TestCandidatesHandler_HandlePostCandidate(t *testing.T) {
	Convey("Given a candidates handler", t, func() {
		deps := newMockDependencies()
		handler := api.NewCandidatesHandler(deps)

		validCandidate := `{
			"candidate_id": "cand-123",
			"ai_score": 8.5,
			"human_score": 6.0,
			"date_added": "2026-08-10T12:00:00Z",
			"role": "backend",
			"source": "referral",
			"status": "screening",
			"interview_status": "scheduled"
		}`

		Convey("When handling a valid POST request", func() {
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(validCandidate))
			w := httptest.NewRecorder()

			Convey("Then it should return accepted status", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)

				var response struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "accepted")
				So(response.Duplicate, ShouldBeFalse)
			})

			Convey("And the submission should carry the request fields", func() {
				handler.HandlePostCandidate(w, req)
				So(len(deps.queue.enqueued), ShouldEqual, 1)
				s := deps.queue.enqueued[0]
				So(s.ID, ShouldEqual, "cand-123")
				So(s.AIScore, ShouldEqual, 8.5)
				So(s.HumanScore, ShouldEqual, 6.0)
				So(s.Role, ShouldEqual, "backend")
				So(s.Source, ShouldEqual, "referral")
				So(s.Status, ShouldEqual, "screening")
				So(s.InterviewStatus, ShouldEqual, "scheduled")
			})
		})

		Convey("When handling a duplicate candidate", func() {
			req1 := httptest.NewRequest("POST", "/candidates", strings.NewReader(validCandidate))
			w1 := httptest.NewRecorder()
			handler.HandlePostCandidate(w1, req1)

			req2 := httptest.NewRequest("POST", "/candidates", strings.NewReader(validCandidate))
			w2 := httptest.NewRecorder()

			Convey("Then it should return duplicate status", func() {
				handler.HandlePostCandidate(w2, req2)
				So(w2.Code, ShouldEqual, http.StatusOK)

				var response struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				err := json.NewDecoder(w2.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Status, ShouldEqual, "duplicate")
				So(response.Duplicate, ShouldBeTrue)
			})
		})

		Convey("When handling an invalid JSON request", func() {
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(`{invalid json`))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a request with a missing candidate_id", func() {
			body := `{"ai_score": 8.5, "human_score": 6.0}`
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a request with an out-of-range score", func() {
			body := `{"candidate_id": "cand-1", "ai_score": 11.0, "human_score": 6.0}`
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a request with a malformed date", func() {
			body := `{"candidate_id": "cand-1", "ai_score": 8.0, "human_score": 6.0, "date_added": "last tuesday"}`
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When handling a request without a date", func() {
			body := `{"candidate_id": "cand-1", "ai_score": 8.0, "human_score": 6.0}`
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(body))
			w := httptest.NewRecorder()

			Convey("Then it should still be accepted", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusAccepted)
			})
		})

		Convey("When handling a non-POST request", func() {
			req := httptest.NewRequest("GET", "/candidates", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When enqueue fails due to backpressure", func() {
			deps.queue.enqueueSuccess = false
			req := httptest.NewRequest("POST", "/candidates", strings.NewReader(validCandidate))
			w := httptest.NewRecorder()

			Convey("Then it should return too many requests and roll back the seen mark", func() {
				handler.HandlePostCandidate(w, req)
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)

				var response struct {
					Code string `json:"code"`
				}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Code, ShouldEqual, "backpressure")
				So(deps.dedupe.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestAnalysisHandler_HandleGetAnalysis(t *testing.T) {
	Convey("Given an analysis handler", t, func() {
		analytics := &mockAnalytics{
			analysis: types.ScoreAnalysis{
				AverageDiscrepancy: -0.33,
				MaxDiscrepancy:     2,
				MinDiscrepancy:     -3,
				TotalCandidates:    3,
				AIHigherCount:      1,
				HumanHigherCount:   1,
				EqualScoresCount:   1,
			},
		}
		handler := api.NewAnalysisHandler(analytics)

		Convey("When requesting the summary", func() {
			req := httptest.NewRequest("GET", "/analysis", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return the summary", func() {
				handler.HandleGetAnalysis(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response types.ScoreAnalysis
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.TotalCandidates, ShouldEqual, 3)
				So(response.MaxDiscrepancy, ShouldEqual, 2)
				So(response.MinDiscrepancy, ShouldEqual, -3)
			})
		})

		Convey("When the analytics backend fails", func() {
			analytics.analysisErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("GET", "/analysis", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetAnalysis(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When using a non-GET method", func() {
			req := httptest.NewRequest("POST", "/analysis", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return not found status", func() {
				handler.HandleGetAnalysis(w, req)
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestTrendsHandler_HandleGetTrends(t *testing.T) {
	Convey("Given a trends handler", t, func() {
		analytics := &mockAnalytics{
			trends: []types.TrendBucket{
				{WeekStart: time.Date(2026, time.July, 27, 0, 0, 0, 0, time.UTC)},
				{WeekStart: time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)},
				{WeekStart: time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)},
				{WeekStart: time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)},
			},
		}
		handler := api.NewTrendsHandler(analytics)

		Convey("When requesting trends without an anchor", func() {
			req := httptest.NewRequest("GET", "/trends", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return four buckets and a zero anchor", func() {
				handler.HandleGetTrends(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response []types.TrendBucket
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response), ShouldEqual, 4)
				So(analytics.trendsAt.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When requesting trends with an explicit anchor", func() {
			req := httptest.NewRequest("GET", "/trends?at=2026-08-19T12:00:00Z", nil)
			w := httptest.NewRecorder()

			Convey("Then the anchor should be forwarded", func() {
				handler.HandleGetTrends(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(analytics.trendsAt.Equal(time.Date(2026, time.August, 19, 12, 0, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})

		Convey("When the anchor is malformed", func() {
			req := httptest.NewRequest("GET", "/trends?at=yesterday", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetTrends(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the analytics backend fails", func() {
			analytics.trendsErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("GET", "/trends", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetTrends(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestBreakdownHandler_HandleGetBreakdown(t *testing.T) {
	Convey("Given a breakdown handler", t, func() {
		analytics := &mockAnalytics{
			breakdown: map[string]types.DimensionStats{
				"backend":  {Total: 10, ScoredCount: 8, AvgAIScore: 7.1, AvgHumanScore: 6.4, AvgAbsDiscrepancy: 0.9},
				"frontend": {Total: 5, ScoredCount: 5, AvgAIScore: 6.0, AvgHumanScore: 6.0, AvgAbsDiscrepancy: 0.2},
			},
		}
		handler := api.NewBreakdownHandler(analytics)

		Convey("When requesting a breakdown by role", func() {
			req := httptest.NewRequest("GET", "/breakdown?by=role", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return grouped stats", func() {
				handler.HandleGetBreakdown(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]types.DimensionStats
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(len(response), ShouldEqual, 2)
				So(response["backend"].Total, ShouldEqual, 10)
			})
		})

		Convey("When the dimension is missing", func() {
			req := httptest.NewRequest("GET", "/breakdown", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetBreakdown(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the dimension is unknown", func() {
			req := httptest.NewRequest("GET", "/breakdown?by=color", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return bad request status", func() {
				handler.HandleGetBreakdown(w, req)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the analytics backend fails", func() {
			analytics.breakErr = fmt.Errorf("store unavailable")
			req := httptest.NewRequest("GET", "/breakdown?by=source", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return internal server error", func() {
				handler.HandleGetBreakdown(w, req)
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		mockStats := &mockStatsProvider{
			stats: map[string]interface{}{
				"total_candidates": 1000,
				"queue_size":       12,
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)

				var response map[string]interface{}
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response["total_candidates"], ShouldEqual, 1000)
				So(response["queue_size"], ShouldEqual, 12)
			})
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
