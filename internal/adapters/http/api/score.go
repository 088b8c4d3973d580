// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/scoring"
)

// ScoreDependencies defines the interface for score processing dependencies
type ScoreDependencies interface {
	SubmitScore(ctx context.Context, job model.ScoreJob) (accepted, duplicate bool)
	ScoreAgent(ctx context.Context, profile model.AgentProfile, posts []model.Post, comments []model.Comment) (scoring.Result, error)
	GetScore(ctx context.Context, agent string) (repository.Entry, error)
}

// ScoreHandler handles score requests
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// scoreRequest mirrors the request schema for POST /score.
type scoreRequest struct {
	JobID    string             `json:"job_id,omitempty"`
	Profile  model.AgentProfile `json:"profile"`
	Posts    []model.Post       `json:"posts,omitempty"`
	Comments []model.Comment    `json:"comments,omitempty"`
	Sync     bool               `json:"sync,omitempty"`
}

func (s scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Profile.Name) == "":
		return errors.New("missing profile.name")
	case s.Profile.CreatedAt.IsZero():
		return errors.New("missing profile.created_at")
	}
	return nil
}

// HandlePostScore handles POST /score requests. The default path enqueues the
// snapshot for asynchronous scoring; sync=true scores inline and returns the
// full result.
func (h *ScoreHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_score"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if req.Sync {
		result, err := h.deps.ScoreAgent(r.Context(), req.Profile, req.Posts, req.Comments)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	job := model.ScoreJob{
		JobID:    req.JobID,
		Profile:  req.Profile,
		Posts:    req.Posts,
		Comments: req.Comments,
	}

	// Dedupe lives in SubmitScore; the handler only translates its verdict.
	accepted, duplicate := h.deps.SubmitScore(r.Context(), job)
	if !accepted {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}

// HandleGetScore handles GET /score/{agent} requests.
func (h *ScoreHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /score/
	agent := strings.TrimPrefix(r.URL.Path, "/score/")
	if agent == "" || strings.Contains(agent, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	entry, err := h.deps.GetScore(r.Context(), agent)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{
		Rank:   entry.Rank,
		Result: entry.Result,
	})
}

// scoreResponse is the detail shape for GET /score/{agent}.
type scoreResponse struct {
	Rank   int            `json:"rank"`
	Result scoring.Result `json:"result"`
}
