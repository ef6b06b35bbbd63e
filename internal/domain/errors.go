package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Validation errors
	ErrMsgInvalidInput = "invalid input"

	// Remote boundary errors
	ErrMsgTransient       = "remote endpoint unreachable"
	ErrMsgRejected        = "rejected by ledger"
	ErrMsgInvalidResponse = "malformed ledger response"
	ErrMsgStaleSnapshot   = "local snapshot is stale"

	// Single-flight errors
	ErrMsgClaimInFlight   = "a claim is already in flight"
	ErrMsgUpgradeInFlight = "an upgrade is already in flight"

	// Entity errors
	ErrMsgPrimeNotFound = "prime not found"
	ErrMsgRuneNotFound  = "rune not found"
	ErrMsgItemNotFound  = "item not found"
	ErrMsgBoxNotFound   = "treasure box not found"

	// Economy errors
	ErrMsgInsufficientFunds    = "insufficient funds"
	ErrMsgInsufficientQuantity = "insufficient quantity"

	// Progression errors
	ErrMsgMaxLevel        = "already at max level"
	ErrMsgAbilityMaxLevel = "ability already at max level"

	// Rune board errors
	ErrMsgSlotOutOfRange = "slot index out of range"
	ErrMsgSlotEmpty      = "slot is empty"
)

// Common domain errors
// These errors should be used consistently across all layers of the engine.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Validation errors - caught before any network call
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// Remote boundary errors
	// ErrTransient: timeout/connectivity failure; prior reconciled state stays intact.
	// ErrRejected: the ledger returned success:false; its message is surfaced verbatim.
	// ErrInvalidResponse: the response decoded but failed validation.
	// ErrStaleSnapshot: the local prediction disagrees with a fresher authoritative snapshot.
	ErrTransient       = errors.New(ErrMsgTransient)
	ErrRejected        = errors.New(ErrMsgRejected)
	ErrInvalidResponse = errors.New(ErrMsgInvalidResponse)
	ErrStaleSnapshot   = errors.New(ErrMsgStaleSnapshot)

	// Single-flight errors
	ErrClaimInFlight   = errors.New(ErrMsgClaimInFlight)
	ErrUpgradeInFlight = errors.New(ErrMsgUpgradeInFlight)

	// Entity errors
	ErrPrimeNotFound = errors.New(ErrMsgPrimeNotFound)
	ErrRuneNotFound  = errors.New(ErrMsgRuneNotFound)
	ErrItemNotFound  = errors.New(ErrMsgItemNotFound)
	ErrBoxNotFound   = errors.New(ErrMsgBoxNotFound)

	// Economy errors
	ErrInsufficientFunds    = errors.New(ErrMsgInsufficientFunds)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	// Progression errors
	ErrMaxLevel        = errors.New(ErrMsgMaxLevel)
	ErrAbilityMaxLevel = errors.New(ErrMsgAbilityMaxLevel)

	// Rune board errors
	ErrSlotOutOfRange = errors.New(ErrMsgSlotOutOfRange)
	ErrSlotEmpty      = errors.New(ErrMsgSlotEmpty)
)
