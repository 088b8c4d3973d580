// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/scout/internal/domain/graph"
	"github.com/okian/scout/internal/domain/model"
)

// GraphDependencies defines the interface for interaction graph operations
type GraphDependencies interface {
	AddInteraction(ctx context.Context, from, to string, weight int) error
	BuildFromThreads(ctx context.Context, threads []model.Thread)
	SybilRank(ctx context.Context, seeds []string) map[string]int
	Reciprocals(ctx context.Context, minWeight int) []graph.Reciprocal
	Diversity(ctx context.Context, agent string) graph.Diversity
	GraphStats(ctx context.Context) graph.Stats
}

// GraphHandler handles interaction graph requests
type GraphHandler struct {
	deps GraphDependencies
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(deps GraphDependencies) *GraphHandler {
	return &GraphHandler{deps: deps}
}

// interactionRequest mirrors the request schema for POST /graph/interactions.
// Either a single directed edge or a batch of comment threads may be sent.
type interactionRequest struct {
	From    string         `json:"from,omitempty"`
	To      string         `json:"to,omitempty"`
	Weight  int            `json:"weight,omitempty"`
	Threads []model.Thread `json:"threads,omitempty"`
}

func (i interactionRequest) validate() error {
	if len(i.Threads) > 0 {
		return nil
	}
	switch {
	case strings.TrimSpace(i.From) == "":
		return errors.New("missing from")
	case strings.TrimSpace(i.To) == "":
		return errors.New("missing to")
	}
	return nil
}

// HandlePostInteractions handles POST /graph/interactions requests.
func (h *GraphHandler) HandlePostInteractions(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_interactions"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if len(req.Threads) > 0 {
		h.deps.BuildFromThreads(r.Context(), req.Threads)
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
		return
	}

	if err := h.deps.AddInteraction(r.Context(), req.From, req.To, req.Weight); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandleGetSybilRank handles GET /graph/sybilrank?seeds=a,b,c requests.
func (h *GraphHandler) HandleGetSybilRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	var seeds []string
	if raw := r.URL.Query().Get("seeds"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				seeds = append(seeds, s)
			}
		}
	}
	ranks := h.deps.SybilRank(r.Context(), seeds)
	writeJSON(w, http.StatusOK, ranks)
}

// HandleGetReciprocals handles GET /graph/reciprocals?min_weight=N requests.
func (h *GraphHandler) HandleGetReciprocals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	minWeight := 3 // default reporting threshold
	if raw := r.URL.Query().Get("min_weight"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		minWeight = n
	}
	writeJSON(w, http.StatusOK, h.deps.Reciprocals(r.Context(), minWeight))
}

// HandleGetDiversity handles GET /graph/diversity/{agent} requests.
func (h *GraphHandler) HandleGetDiversity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	agent := strings.TrimPrefix(r.URL.Path, "/graph/diversity/")
	if agent == "" || strings.Contains(agent, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Diversity(r.Context(), agent))
}

// HandleGetStats handles GET /graph/stats requests.
func (h *GraphHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GraphStats(r.Context()))
}
