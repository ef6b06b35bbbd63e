package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Generic HTTP error messages for client responses.
// These intentionally do not expose internal error details.
const (
	ErrMsgInvalidRequest     = "Invalid request body"
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgMissingQueryParam  = "Missing %s query parameter"
	ErrMsgBoxNotLoaded       = "Treasure box not loaded; refresh accrual status first"

	ErrMsgClaimFailed       = "Failed to claim treasure box"
	ErrMsgRefreshFailed     = "Failed to refresh accrual status"
	ErrMsgLevelUpFailed     = "Failed to level up prime"
	ErrMsgQuoteFailed       = "Failed to quote upgrade cost"
	ErrMsgUpgradeFailed     = "Failed to upgrade ability"
	ErrMsgRuneActionFailed  = "Failed to update rune board"
	ErrMsgLedgerUnreachable = "The vault is unreachable. Please try again."
)

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}
