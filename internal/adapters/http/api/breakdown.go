package api

import (
	"context"
	"fmt"
	"net/http"
)

// Dimensions accepted by GET /breakdown.
const (
	ByRole      = "role"
	BySource    = "source"
	ByStage     = "stage"
	ByInterview = "interview"
)

// BreakdownDependencies defines the interface for dimension breakdowns.
type BreakdownDependencies interface {
	Breakdown(ctx context.Context, by string) (map[string]DimensionStats, error)
}

// BreakdownHandler handles breakdown requests.
type BreakdownHandler struct {
	deps BreakdownDependencies
}

// NewBreakdownHandler creates a new breakdown handler.
func NewBreakdownHandler(deps BreakdownDependencies) *BreakdownHandler {
	return &BreakdownHandler{deps: deps}
}

// HandleGetBreakdown handles GET /breakdown?by=dimension requests.
func (h *BreakdownHandler) HandleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_breakdown"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	by := r.URL.Query().Get("by")
	switch by {
	case ByRole, BySource, ByStage, ByInterview:
	default:
		err := fmt.Errorf("by must be one of %s, %s, %s, %s", ByRole, BySource, ByStage, ByInterview)
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	groups, err := h.deps.Breakdown(r.Context(), by)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
