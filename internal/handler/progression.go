package handler

import (
	"net/http"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/progression"
	"github.com/halcyonworks/primevault/internal/session"
)

// LevelUpRequest selects XP items to consume on a prime
type LevelUpRequest struct {
	OwnerID string                 `json:"owner_id" validate:"required,max=100"`
	PrimeID string                 `json:"prime_id" validate:"required"`
	Items   []domain.ItemSelection `json:"items" validate:"required,min=1,dive"`
}

// LevelUpPreviewResponse is the simulated outcome of a consumption,
// computed locally without touching the ledger
type LevelUpPreviewResponse struct {
	Preview progression.LevelPreview `json:"preview"`
	TotalXP int                      `json:"total_xp"`
}

// QuoteRequest asks for the cost of the next ability upgrade step
type QuoteRequest struct {
	PrimeID   string `json:"prime_id" validate:"required"`
	SlotIndex int    `json:"slot_index" validate:"gte=0,lte=3"`
}

// UpgradeRequest commits an ability upgrade against a previously shown quote
type UpgradeRequest struct {
	PrimeID   string              `json:"prime_id" validate:"required"`
	SlotIndex int                 `json:"slot_index" validate:"gte=0,lte=3"`
	Quote     domain.UpgradeQuote `json:"quote"`
}

// ProgressionHandler handles prime leveling and ability upgrade requests
type ProgressionHandler struct {
	progressionSvc *progression.Coordinator
	session        *session.Session
}

// NewProgressionHandler creates a new progression handler
func NewProgressionHandler(progressionSvc *progression.Coordinator, sess *session.Session) *ProgressionHandler {
	return &ProgressionHandler{
		progressionSvc: progressionSvc,
		session:        sess,
	}
}

// PreviewLevelUp simulates an XP item consumption without committing it
func (h *ProgressionHandler) PreviewLevelUp(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LevelUpRequest
	if err := DecodeAndValidateRequest(r, w, &req, "PreviewLevelUp"); err != nil {
		return
	}

	prime, err := h.session.Prime(req.PrimeID)
	if err != nil {
		log.Warn("Preview for unknown prime", "prime_id", req.PrimeID)
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	preview, totalXP, err := h.progressionSvc.PreviewConsume(r.Context(), prime, req.Items)
	if err != nil {
		log.Error("Level-up preview failed", "error", err, "prime_id", req.PrimeID)
		statusCode, userMsg := mapServiceError(err, ErrMsgLevelUpFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, LevelUpPreviewResponse{
		Preview: preview,
		TotalXP: totalXP,
	})
}

// LevelUp consumes XP items on a prime through the ledger and reconciles
// the local prime against the authoritative result
func (h *ProgressionHandler) LevelUp(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req LevelUpRequest
	if err := DecodeAndValidateRequest(r, w, &req, "LevelUp"); err != nil {
		return
	}

	prime, err := h.session.Prime(req.PrimeID)
	if err != nil {
		log.Warn("Level up for unknown prime", "prime_id", req.PrimeID)
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	log.Info("Level up request received",
		"owner_id", req.OwnerID,
		"prime_id", req.PrimeID,
		"selections", len(req.Items))

	result, err := h.progressionSvc.ConsumeExperienceItems(r.Context(), req.OwnerID, prime, req.Items, h.session.Stacks())
	if err != nil {
		log.Error("Level up failed", "error", err, "prime_id", req.PrimeID)
		statusCode, userMsg := mapServiceError(err, ErrMsgLevelUpFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	if result.Success {
		// The ledger consumed the stacks; mirror the debit locally
		h.session.DebitStacks(req.Items)
		log.Info("Level up applied",
			"prime_id", req.PrimeID,
			"new_level", result.NewLevel,
			"levels_gained", result.LevelsGained)
	} else {
		log.Info("Level up rejected by ledger", "prime_id", req.PrimeID, "message", result.Message)
	}

	respondJSON(w, http.StatusOK, result)
}

// QuoteUpgrade returns the cost of the next upgrade step for an ability slot
func (h *ProgressionHandler) QuoteUpgrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req QuoteRequest
	if err := DecodeAndValidateRequest(r, w, &req, "QuoteUpgrade"); err != nil {
		return
	}

	prime, err := h.session.Prime(req.PrimeID)
	if err != nil {
		log.Warn("Quote for unknown prime", "prime_id", req.PrimeID)
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	quote, err := h.progressionSvc.QuoteUpgrade(r.Context(), prime, req.SlotIndex)
	if err != nil {
		log.Error("Upgrade quote failed", "error", err, "prime_id", req.PrimeID, "slot_index", req.SlotIndex)
		statusCode, userMsg := mapServiceError(err, ErrMsgQuoteFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	if quote.Estimated {
		log.Warn("Serving estimated upgrade quote", "prime_id", req.PrimeID, "slot_index", req.SlotIndex)
	}

	respondJSON(w, http.StatusOK, quote)
}

// Upgrade commits an ability upgrade. The session wallet gates the call
// locally; the ledger's debited cost is mirrored on success.
func (h *ProgressionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req UpgradeRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Upgrade"); err != nil {
		return
	}

	prime, err := h.session.Prime(req.PrimeID)
	if err != nil {
		log.Warn("Upgrade for unknown prime", "prime_id", req.PrimeID)
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	log.Info("Upgrade request received",
		"prime_id", req.PrimeID,
		"slot_index", req.SlotIndex,
		"quoted_gems", req.Quote.Gems,
		"quoted_scrolls", req.Quote.Scrolls)

	result, err := h.progressionSvc.ApplyUpgrade(r.Context(), prime, req.SlotIndex, req.Quote, h.session.Wallet())
	if err != nil {
		log.Error("Upgrade failed", "error", err, "prime_id", req.PrimeID, "slot_index", req.SlotIndex)
		statusCode, userMsg := mapServiceError(err, ErrMsgUpgradeFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	if result.Success {
		h.session.DebitWallet(result.GemsCost, result.ScrollCost)
		log.Info("Upgrade applied",
			"prime_id", req.PrimeID,
			"slot_index", req.SlotIndex,
			"new_level", result.NewLevel,
			"gems_cost", result.GemsCost,
			"scroll_cost", result.ScrollCost)
	} else {
		log.Info("Upgrade rejected by ledger",
			"prime_id", req.PrimeID,
			"slot_index", req.SlotIndex,
			"message", result.Message)
	}

	respondJSON(w, http.StatusOK, result)
}
