package api

import (
	"context"
	"net/http"
	"time"
)

// TrendsDependencies defines the interface for weekly trend queries.
type TrendsDependencies interface {
	Trends(ctx context.Context, at time.Time) ([]TrendBucket, error)
}

// TrendsHandler handles trend requests.
type TrendsHandler struct {
	deps TrendsDependencies
}

// NewTrendsHandler creates a new trends handler.
func NewTrendsHandler(deps TrendsDependencies) *TrendsHandler {
	return &TrendsHandler{deps: deps}
}

// HandleGetTrends handles GET /trends?at=RFC3339 requests. The optional
// "at" parameter anchors the four-week window; it defaults to now.
func (h *TrendsHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trends"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var at time.Time
	if raw := r.URL.Query().Get("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		at = parsed
	}

	buckets, err := h.deps.Trends(r.Context(), at)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}
