// Package accrual implements the idle-accrual engine for treasure boxes:
// a pure simulator that projects the accrued amount from the authoritative
// checkpoint, a periodic ticker that re-evaluates the projection, and the
// claim coordinator that reconciles against the ledger.
package accrual

import (
	"fmt"
	"math"
	"time"

	"github.com/halcyonworks/primevault/internal/domain"
)

// CapHours is the maximum accrual window. Beyond it the accrued amount
// stops growing, matching the ledger's cap policy.
const CapHours = 30

// CapDuration is CapHours as a duration
const CapDuration = CapHours * time.Hour

// Projection is a point-in-time view of a box's accrual. It is derived,
// never persisted; the checkpoint is the only durable fact.
type Projection struct {
	Accumulated      int           `json:"accumulated"`
	FillFraction     float64       `json:"fill_fraction"`
	TimeToFull       time.Duration `json:"time_to_full"`
	FormattedElapsed string        `json:"formatted_elapsed"`
}

// Simulate computes the current projection for a box at the given instant.
// Pure: no I/O, no writes, and it cannot advance the checkpoint.
//
// Edge cases: a zero checkpoint means no accrual has started; local clock
// skew (now before the checkpoint) clamps elapsed to zero rather than
// negative-accruing.
func Simulate(box domain.TreasureBox, now time.Time) Projection {
	var elapsed time.Duration
	if !box.LastCheckpointAt.IsZero() {
		elapsed = now.Sub(box.LastCheckpointAt)
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > CapDuration {
		elapsed = CapDuration
	}

	if box.Capacity <= 0 || box.ProductionRatePerHour <= 0 {
		return Projection{
			FillFraction:     1,
			FormattedElapsed: formatElapsed(elapsed),
		}
	}

	produced := elapsed.Hours() * box.ProductionRatePerHour
	accumulated := int(math.Floor(produced))
	if accumulated > box.Capacity {
		accumulated = box.Capacity
	}

	fill := float64(accumulated) / float64(box.Capacity)
	if fill > 1 {
		fill = 1
	}

	// TimeToFull is the time until accrual stops growing. When capacity is
	// unreachable within the elapsed cap, that is the end of the window,
	// not a fill instant the box can never hit.
	var timeToFull time.Duration
	if fill < 1 {
		remainingHours := (float64(box.Capacity) - produced) / box.ProductionRatePerHour
		if window := (CapDuration - elapsed).Hours(); remainingHours > window {
			remainingHours = window
		}
		timeToFull = time.Duration(remainingHours * float64(time.Hour))
	}

	return Projection{
		Accumulated:      accumulated,
		FillFraction:     fill,
		TimeToFull:       timeToFull,
		FormattedElapsed: formatElapsed(elapsed),
	}
}

// formatElapsed renders an elapsed duration as "3h 05m" / "12m" for display
func formatElapsed(elapsed time.Duration) string {
	elapsed = elapsed.Truncate(time.Minute)
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
