package handler

import (
	"errors"
	"net/http"

	"github.com/halcyonworks/primevault/internal/domain"
)

// mapServiceError maps domain errors to an HTTP status code and a safe
// user-facing message. Errors without a specific mapping fall through to a
// generic 500 so internal details never leak to the client.
func mapServiceError(err error, fallbackMsg string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrSlotOutOfRange):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrSlotEmpty):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrPrimeNotFound),
		errors.Is(err, domain.ErrRuneNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrBoxNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrClaimInFlight),
		errors.Is(err, domain.ErrUpgradeInFlight):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientQuantity),
		errors.Is(err, domain.ErrMaxLevel),
		errors.Is(err, domain.ErrAbilityMaxLevel),
		errors.Is(err, domain.ErrStaleSnapshot):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable, ErrMsgLedgerUnreachable
	case errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway, ErrMsgLedgerUnreachable
	default:
		return http.StatusInternalServerError, fallbackMsg
	}
}
