package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/logger"
)

// Handler exposes the ledger service over the JSON API the engine's remote
// client speaks
type Handler struct {
	svc Service
}

// NewHandler creates a ledger HTTP handler
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the ledger API onto a chi router
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/accrual/status", h.handleAccrualStatus)
		r.Post("/accrual/claim", h.handleClaim)
		r.Post("/prime/consume-xp", h.handleConsumeXP)
		r.Post("/ability/quote", h.handleQuote)
		r.Post("/ability/upgrade", h.handleUpgrade)
		r.Get("/config/{key}", h.handleConfig)
	})
}

type claimRequest struct {
	OwnerID string `json:"owner_id"`
}

type consumeXPRequest struct {
	OwnerID string                 `json:"owner_id"`
	PrimeID string                 `json:"prime_id"`
	Items   []domain.ItemSelection `json:"items"`
}

type quoteRequest struct {
	PrimeID      string `json:"prime_id"`
	SlotIndex    int    `json:"slot_index"`
	CurrentLevel int    `json:"current_level"`
	OwnerRarity  string `json:"owner_rarity"`
}

type upgradeRequest struct {
	PrimeID      string `json:"prime_id"`
	SlotIndex    int    `json:"slot_index"`
	CurrentLevel int    `json:"current_level"`
}

type configPayload struct {
	Key    string             `json:"key"`
	Values map[string]float64 `json:"values"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (h *Handler) handleAccrualStatus(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}

	status, err := h.svc.AccrualStatus(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OwnerID == "" {
		respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}

	outcome, err := h.svc.Claim(r.Context(), req.OwnerID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

func (h *Handler) handleConsumeXP(w http.ResponseWriter, r *http.Request) {
	var req consumeXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OwnerID == "" || req.PrimeID == "" || len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "owner_id, prime_id and items are required")
		return
	}

	result, err := h.svc.ConsumeExperienceItems(r.Context(), req.OwnerID, req.PrimeID, req.Items)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PrimeID == "" {
		respondError(w, http.StatusBadRequest, "prime_id is required")
		return
	}

	quote, err := h.svc.QuoteUpgrade(r.Context(), req.PrimeID, req.SlotIndex, req.CurrentLevel)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

func (h *Handler) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PrimeID == "" {
		respondError(w, http.StatusBadRequest, "prime_id is required")
		return
	}

	result, err := h.svc.ApplyUpgrade(r.Context(), req.PrimeID, req.SlotIndex, req.CurrentLevel)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	values, err := h.svc.NumericConfig(r.Context(), key)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, configPayload{Key: key, Values: values})
}

// respondServiceError maps service errors to HTTP status codes
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch {
	case errors.Is(err, domain.ErrBoxNotFound),
		errors.Is(err, domain.ErrPrimeNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrSlotOutOfRange):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("Ledger request failed", "error", err, "path", r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorPayload{Error: message})
}
