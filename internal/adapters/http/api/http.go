// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/graph"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/internal/domain/types"
	"github.com/okian/scout/internal/domain/vouch"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Scoring pipeline. SubmitScore owns job deduplication and reports a
	// duplicate as accepted.
	SubmitScore(ctx context.Context, job model.ScoreJob) (accepted, duplicate bool)
	ScoreAgent(ctx context.Context, profile model.AgentProfile, posts []model.Post, comments []model.Comment) (scoring.Result, error)
	GetScore(ctx context.Context, agent string) (repository.Entry, error)
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Interaction graph.
	AddInteraction(ctx context.Context, from, to string, weight int) error
	BuildFromThreads(ctx context.Context, threads []model.Thread)
	SybilRank(ctx context.Context, seeds []string) map[string]int
	Reciprocals(ctx context.Context, minWeight int) []graph.Reciprocal
	Diversity(ctx context.Context, agent string) graph.Diversity
	GraphStats(ctx context.Context) graph.Stats

	// Vouching.
	VouchFor(ctx context.Context, voucher, vouchee string, stake float64) (vouch.Receipt, error)
	SlashAgent(ctx context.Context, vouchee, reason string, severity float64) ([]vouch.Penalty, error)
	TrustBoost(ctx context.Context, agent string) vouch.Boost
	SlashHistory(ctx context.Context, voucher string) []vouch.Slash
}

// Entry mirrors the read shape returned by board queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	scoreHandler  *ScoreHandler
	boardHandler  *BoardHandler
	graphHandler  *GraphHandler
	vouchHandler  *VouchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBoardLimit int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		scoreHandler:  NewScoreHandler(deps),
		boardHandler:  NewBoardHandler(deps, maxBoardLimit),
		graphHandler:  NewGraphHandler(deps),
		vouchHandler:  NewVouchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandlePostScore, "score"))
	mux.HandleFunc("/score/", MetricsMiddleware(s.scoreHandler.HandleGetScore, "score_get"))
	mux.HandleFunc("/board", MetricsMiddleware(s.boardHandler.HandleGetBoard, "board"))
	mux.HandleFunc("/graph/interactions", MetricsMiddleware(s.graphHandler.HandlePostInteractions, "graph_interactions"))
	mux.HandleFunc("/graph/sybilrank", MetricsMiddleware(s.graphHandler.HandleGetSybilRank, "graph_sybilrank"))
	mux.HandleFunc("/graph/reciprocals", MetricsMiddleware(s.graphHandler.HandleGetReciprocals, "graph_reciprocals"))
	mux.HandleFunc("/graph/diversity/", MetricsMiddleware(s.graphHandler.HandleGetDiversity, "graph_diversity"))
	mux.HandleFunc("/graph/stats", MetricsMiddleware(s.graphHandler.HandleGetStats, "graph_stats"))
	mux.HandleFunc("/vouch", MetricsMiddleware(s.vouchHandler.HandlePostVouch, "vouch"))
	mux.HandleFunc("/slash", MetricsMiddleware(s.vouchHandler.HandlePostSlash, "slash"))
	mux.HandleFunc("/boost/", MetricsMiddleware(s.vouchHandler.HandleGetBoost, "boost"))
	mux.HandleFunc("/slashes/", MetricsMiddleware(s.vouchHandler.HandleGetSlashes, "slashes"))
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

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
