package handler

import (
	"fmt"
	"net/http"

	"github.com/halcyonworks/primevault/internal/accrual"
	"github.com/halcyonworks/primevault/internal/logger"
)

// AccrualRequest identifies whose treasure box an accrual operation targets
type AccrualRequest struct {
	OwnerID string `json:"owner_id" validate:"required,max=100"`
}

// ProjectionResponse is the current local view of a box's accrual
type ProjectionResponse struct {
	OwnerID      string             `json:"owner_id"`
	Phase        string             `json:"phase"`
	Projection   accrual.Projection `json:"projection"`
	Capacity     int                `json:"capacity"`
	RatePerHour  float64            `json:"rate_per_hour"`
	LifetimeGems int                `json:"lifetime_gems"`
}

// AccrualHandler handles treasure-box HTTP requests
type AccrualHandler struct {
	coordinator *accrual.Coordinator
}

// NewAccrualHandler creates a new accrual handler
func NewAccrualHandler(coordinator *accrual.Coordinator) *AccrualHandler {
	return &AccrualHandler{coordinator: coordinator}
}

// Refresh re-seeds the local box state from the ledger snapshot
func (h *AccrualHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req AccrualRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Refresh"); err != nil {
		return
	}

	box, err := h.coordinator.Refresh(r.Context(), req.OwnerID)
	if err != nil {
		log.Error("Accrual refresh failed", "error", err, "owner_id", req.OwnerID)
		statusCode, userMsg := mapServiceError(err, ErrMsgRefreshFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	log.Info("Accrual state refreshed",
		"owner_id", req.OwnerID,
		"capacity", box.Capacity,
		"rate_per_hour", box.ProductionRatePerHour)

	respondJSON(w, http.StatusOK, box)
}

// Projection returns the simulated accrual for an owner's box.
// Read-only: it never advances the checkpoint.
func (h *AccrualHandler) Projection(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, "owner_id"))
		return
	}

	projection, ok := h.coordinator.Project(ownerID)
	if !ok {
		log.Warn("Projection requested for unknown box", "owner_id", ownerID)
		respondError(w, http.StatusNotFound, ErrMsgBoxNotLoaded)
		return
	}

	box, _ := h.coordinator.Box(ownerID)

	respondJSON(w, http.StatusOK, ProjectionResponse{
		OwnerID:      ownerID,
		Phase:        string(h.coordinator.Phase(ownerID)),
		Projection:   projection,
		Capacity:     box.Capacity,
		RatePerHour:  box.ProductionRatePerHour,
		LifetimeGems: box.TotalLifetimeProduced,
	})
}

// Claim runs the two-phase claim against the ledger
func (h *AccrualHandler) Claim(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req AccrualRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Claim"); err != nil {
		return
	}

	log.Info("Claim request received", "owner_id", req.OwnerID)

	outcome, err := h.coordinator.Claim(r.Context(), req.OwnerID)
	if err != nil {
		log.Error("Claim failed", "error", err, "owner_id", req.OwnerID)
		statusCode, userMsg := mapServiceError(err, ErrMsgClaimFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	if outcome.Success {
		log.Info("Claim confirmed",
			"owner_id", req.OwnerID,
			"amount_claimed", outcome.AmountClaimed,
			"new_total", outcome.NewTotal)
	} else {
		log.Info("Claim rejected by ledger", "owner_id", req.OwnerID, "message", outcome.Message)
	}

	respondJSON(w, http.StatusOK, outcome)
}
