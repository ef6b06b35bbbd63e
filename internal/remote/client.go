// Package remote is the engine's only external dependency: the authoritative
// ledger's procedure boundary. The ledger owns gem balances, item quantities
// and prime records; everything the engine computes locally is a prediction
// reconciled against responses from this boundary.
package remote

import (
	"context"

	"github.com/halcyonworks/primevault/internal/domain"
)

// Client is the opaque remote procedure boundary.
//
// Error contract:
//   - transport/timeout failures wrap domain.ErrTransient
//   - explicit server rejections wrap domain.ErrRejected and carry the
//     server's message verbatim
//   - responses that decode but fail validation wrap domain.ErrInvalidResponse
//
// Mutation endpoints are atomic-and-authoritative; the client never sends a
// locally computed amount.
type Client interface {
	// GetAccrualStatus returns the read-only snapshot used to (re)seed the
	// accrual simulator.
	GetAccrualStatus(ctx context.Context, ownerID string) (*domain.AccrualStatus, error)

	// ClaimAccrual atomically claims accumulated gems. Must not be invoked
	// twice concurrently for the same owner.
	ClaimAccrual(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error)

	// ConsumeExperienceItems atomically consumes XP items and levels the
	// prime in one round trip.
	ConsumeExperienceItems(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error)

	// QuoteAbilityUpgradeCost fetches the authoritative upgrade cost.
	QuoteAbilityUpgradeCost(ctx context.Context, primeID string, slotIndex, currentLevel int, ownerRarity domain.Rarity) (*domain.UpgradeQuote, error)

	// ApplyAbilityUpgrade atomically applies an ability upgrade. The ledger
	// re-validates the cost server-side rather than trusting any quote.
	ApplyAbilityUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error)

	// GetNumericConfig returns a tunable numeric table by key.
	GetNumericConfig(ctx context.Context, key string) (map[string]float64, error)
}
