package handler

import (
	"fmt"
	"net/http"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/session"
	"github.com/halcyonworks/primevault/internal/synergy"
)

// EquipRuneRequest places a rune in a board slot on a prime
type EquipRuneRequest struct {
	PrimeID string `json:"prime_id" validate:"required"`
	RuneID  string `json:"rune_id" validate:"required"`
	Slot    int    `json:"slot" validate:"gte=0,lte=5"`
}

// UnequipRuneRequest empties a board slot on a prime
type UnequipRuneRequest struct {
	PrimeID string `json:"prime_id" validate:"required"`
	Slot    int    `json:"slot" validate:"gte=0,lte=5"`
}

// BoardResponse is the rune board state plus its aggregated stats after a
// mutation. Displaced reports the rune pushed out of the slot, if any.
type BoardResponse struct {
	PrimeID   string                             `json:"prime_id"`
	Slots     [domain.RuneSlotCount]*domain.Rune `json:"slots"`
	Result    synergy.Result                     `json:"result"`
	Displaced *domain.Rune                       `json:"displaced,omitempty"`
}

// RuneHandler handles rune board HTTP requests
type RuneHandler struct {
	session *session.Session
}

// NewRuneHandler creates a new rune handler
func NewRuneHandler(sess *session.Session) *RuneHandler {
	return &RuneHandler{session: sess}
}

// Equip places a rune into a slot. The session owns the move: a rune
// already sitting on any board, this prime's or another's, is cleared from
// its old slot, and the displaced occupant is unequipped, all in one
// aggregation pass.
func (h *RuneHandler) Equip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req EquipRuneRequest
	if err := DecodeAndValidateRequest(r, w, &req, "EquipRune"); err != nil {
		return
	}

	displaced, result, err := h.session.EquipRune(req.PrimeID, req.RuneID, req.Slot)
	if err != nil {
		log.Warn("Equip failed", "error", err, "prime_id", req.PrimeID, "rune_id", req.RuneID, "slot", req.Slot)
		statusCode, userMsg := mapServiceError(err, ErrMsgRuneActionFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	board, err := h.session.Board(req.PrimeID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	log.Info("Rune equipped",
		"prime_id", req.PrimeID,
		"rune_id", req.RuneID,
		"slot", req.Slot,
		"active_synergies", countActive(result))

	respondJSON(w, http.StatusOK, BoardResponse{
		PrimeID:   req.PrimeID,
		Slots:     board.Slots(),
		Result:    result,
		Displaced: displaced,
	})
}

// Unequip removes the rune from a slot
func (h *RuneHandler) Unequip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req UnequipRuneRequest
	if err := DecodeAndValidateRequest(r, w, &req, "UnequipRune"); err != nil {
		return
	}

	removed, result, err := h.session.UnequipRune(req.PrimeID, req.Slot)
	if err != nil {
		log.Warn("Unequip failed", "error", err, "prime_id", req.PrimeID, "slot", req.Slot)
		statusCode, userMsg := mapServiceError(err, ErrMsgRuneActionFailed)
		respondError(w, statusCode, userMsg)
		return
	}

	board, err := h.session.Board(req.PrimeID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	log.Info("Rune unequipped", "prime_id", req.PrimeID, "rune_id", removed.ID, "slot", req.Slot)

	respondJSON(w, http.StatusOK, BoardResponse{
		PrimeID: req.PrimeID,
		Slots:   board.Slots(),
		Result:  result,
	})
}

// Synergy returns a prime's current board aggregation
func (h *RuneHandler) Synergy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	primeID := r.URL.Query().Get("prime_id")
	if primeID == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, "prime_id"))
		return
	}

	board, err := h.session.Board(primeID)
	if err != nil {
		log.Warn("Synergy for unknown prime", "prime_id", primeID)
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	result := board.Aggregate()

	respondJSON(w, http.StatusOK, BoardResponse{
		PrimeID: primeID,
		Slots:   board.Slots(),
		Result:  result,
	})
}

func countActive(result synergy.Result) int {
	n := 0
	for _, s := range result.Synergies {
		if s.Active {
			n++
		}
	}
	return n
}
