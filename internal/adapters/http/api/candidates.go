package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/scoutboard/internal/domain/dedupe"
	"github.com/okian/scoutboard/internal/domain/model"
)

// CandidateDependencies defines the interface for candidate ingestion.
type CandidateDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, s model.Submission) bool
}

// CandidatesHandler handles candidate ingestion requests.
type CandidatesHandler struct {
	deps CandidateDependencies
}

// NewCandidatesHandler creates a new candidates handler.
func NewCandidatesHandler(deps CandidateDependencies) *CandidatesHandler {
	return &CandidatesHandler{deps: deps}
}

// HandlePostCandidate handles POST /candidates requests.
func (h *CandidatesHandler) HandlePostCandidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_candidate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req candidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check keyed on candidate_id; mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.CandidateID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.Enqueue(r.Context(), req.submission()); !ok {
		// Roll back the seen mark so the client can retry.
		h.deps.Unrecord(r.Context(), req.CandidateID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
