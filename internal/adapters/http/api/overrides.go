// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ibutrack/teamboard/internal/domain/types"
)

// OverrideDependencies defines the interface for override reads and writes.
type OverrideDependencies interface {
	Overrides(ctx context.Context) types.OverrideMap
	SetOverride(ctx context.Context, member string, incoming map[string]*bool, remove bool) (types.Override, error)
}

// OverridesHandler handles milestone override requests.
type OverridesHandler struct {
	deps OverrideDependencies
}

// NewOverridesHandler creates a new overrides handler.
func NewOverridesHandler(deps OverrideDependencies) *OverridesHandler {
	return &OverridesHandler{deps: deps}
}

// overrideRequest mirrors the POST body. Decoding Overrides into *bool
// pointers preserves the tri-state: absent key, explicit null, true/false.
type overrideRequest struct {
	Member    string           `json:"member"`
	Overrides map[string]*bool `json:"overrides"`
	Remove    bool             `json:"remove"`
}

type overrideResponse struct {
	Success   bool             `json:"success"`
	Overrides map[string]*bool `json:"overrides"`
}

// HandleOverrides handles GET and POST /api/overrides requests.
func (h *OverridesHandler) HandleOverrides(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *OverridesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"overrides": h.deps.Overrides(r.Context()),
	})
}

func (h *OverridesHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_overrides"
	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	req.Member = strings.TrimSpace(req.Member)
	if req.Member == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	ov, err := h.deps.SetOverride(r.Context(), req.Member, req.Overrides, req.Remove)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	// Stable tri-state response: every key present, absent ones as null.
	writeJSON(w, http.StatusOK, overrideResponse{
		Success: true,
		Overrides: map[string]*bool{
			"week_1":  ov.Week1,
			"month_1": ov.Month1,
			"month_3": ov.Month3,
		},
	})
}
