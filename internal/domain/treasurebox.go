package domain

import "time"

// TreasureBox is a player's idle-accrual reservoir.
// ProductionRatePerHour and Capacity are server-controlled. LastCheckpointAt
// is the authoritative instant accrual is measured from; it moves only on a
// confirmed claim or a reload. The accrued amount is never stored - it is
// always re-derived from the checkpoint.
type TreasureBox struct {
	OwnerID               string    `json:"owner_id"`
	ProductionRatePerHour float64   `json:"production_rate_per_hour"`
	Capacity              int       `json:"capacity"`
	LastCheckpointAt      time.Time `json:"last_checkpoint_at"`
	TotalLifetimeProduced int       `json:"total_lifetime_produced"`
}

// AccrualStatus is the read-only ledger snapshot used to (re)seed the
// accrual simulator.
type AccrualStatus struct {
	ProductionRatePerHour float64   `json:"production_rate_per_hour" validate:"gte=0"`
	Capacity              int       `json:"capacity" validate:"gte=0"`
	LastCheckpointAt      time.Time `json:"last_checkpoint_at"`
	AccumulatedGems       int       `json:"accumulated_gems"`
	IsFull                bool      `json:"is_full"`
}

// ClaimOutcome is the result of the atomic claim operation
type ClaimOutcome struct {
	Success       bool   `json:"success"`
	AmountClaimed int    `json:"amount_claimed"`
	NewTotal      int    `json:"new_total"`
	Message       string `json:"message"`
}
