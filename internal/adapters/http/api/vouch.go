// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/scout/internal/domain/vouch"
)

// VouchDependencies defines the interface for vouching operations
type VouchDependencies interface {
	VouchFor(ctx context.Context, voucher, vouchee string, stake float64) (vouch.Receipt, error)
	SlashAgent(ctx context.Context, vouchee, reason string, severity float64) ([]vouch.Penalty, error)
	TrustBoost(ctx context.Context, agent string) vouch.Boost
	SlashHistory(ctx context.Context, voucher string) []vouch.Slash
}

// VouchHandler handles vouching requests
type VouchHandler struct {
	deps VouchDependencies
}

// NewVouchHandler creates a new vouch handler
func NewVouchHandler(deps VouchDependencies) *VouchHandler {
	return &VouchHandler{deps: deps}
}

// vouchRequest mirrors the request schema for POST /vouch.
type vouchRequest struct {
	Voucher string  `json:"voucher"`
	Vouchee string  `json:"vouchee"`
	Stake   float64 `json:"stake,omitempty"`
}

func (v vouchRequest) validate() error {
	switch {
	case strings.TrimSpace(v.Voucher) == "":
		return errors.New("missing voucher")
	case strings.TrimSpace(v.Vouchee) == "":
		return errors.New("missing vouchee")
	}
	return nil
}

// slashRequest mirrors the request schema for POST /slash.
type slashRequest struct {
	Vouchee  string  `json:"vouchee"`
	Reason   string  `json:"reason"`
	Severity float64 `json:"severity"`
}

func (s slashRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Vouchee) == "":
		return errors.New("missing vouchee")
	case strings.TrimSpace(s.Reason) == "":
		return errors.New("missing reason")
	}
	return nil
}

// HandlePostVouch handles POST /vouch requests.
func (h *VouchHandler) HandlePostVouch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_vouch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req vouchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	receipt, err := h.deps.VouchFor(r.Context(), req.Voucher, req.Vouchee, req.Stake)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		// All ledger validation failures are client errors.
		writeError(w, http.StatusUnprocessableEntity, "vouch_rejected", err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

// HandlePostSlash handles POST /slash requests.
func (h *VouchHandler) HandlePostSlash(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_slash"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req slashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	penalties, err := h.deps.SlashAgent(r.Context(), req.Vouchee, req.Reason, req.Severity)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "slash_rejected", err)
		return
	}
	writeJSON(w, http.StatusOK, slashResponse{
		Vouchee:   req.Vouchee,
		Penalties: penalties,
	})
}

// slashResponse is the shape returned by POST /slash.
type slashResponse struct {
	Vouchee   string          `json:"vouchee"`
	Penalties []vouch.Penalty `json:"penalties"`
}

// HandleGetBoost handles GET /boost/{agent} requests.
func (h *VouchHandler) HandleGetBoost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	agent := strings.TrimPrefix(r.URL.Path, "/boost/")
	if agent == "" || strings.Contains(agent, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.TrustBoost(r.Context(), agent))
}

// HandleGetSlashes handles GET /slashes/{voucher} requests.
func (h *VouchHandler) HandleGetSlashes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	voucher := strings.TrimPrefix(r.URL.Path, "/slashes/")
	if voucher == "" || strings.Contains(voucher, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.SlashHistory(r.Context(), voucher))
}
