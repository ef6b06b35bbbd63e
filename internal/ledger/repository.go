package ledger

import (
	"context"
	"time"

	"github.com/halcyonworks/primevault/internal/domain"
)

// Repository is the ledger's storage boundary. Each method is atomic on its
// own; the service composes them and the stores guarantee a failed
// precondition (insufficient funds, missing stack) mutates nothing.
type Repository interface {
	// GetBox returns an owner's treasure box
	GetBox(ctx context.Context, ownerID string) (*domain.TreasureBox, error)

	// SettleClaim credits a claim: add claimed gems to the wallet, bump the
	// box's lifetime total and reset its checkpoint. Returns the new
	// lifetime total.
	SettleClaim(ctx context.Context, ownerID string, resetAt time.Time, claimed int) (int, error)

	// GetWallet returns an owner's spendable balances
	GetWallet(ctx context.Context, ownerID string) (domain.Wallet, error)

	// SpendWallet deducts gems and scrolls, failing with
	// domain.ErrInsufficientFunds if either balance is short
	SpendWallet(ctx context.Context, ownerID string, gems, scrolls int) error

	// GetPrime returns a prime by ID
	GetPrime(ctx context.Context, primeID string) (*domain.Prime, error)

	// SavePrime persists a prime's full state
	SavePrime(ctx context.Context, prime *domain.Prime) error

	// GetStacks returns an owner's consumable item stacks (kind -> quantity)
	GetStacks(ctx context.Context, ownerID string) (map[string]int, error)

	// RemoveStacks deducts item quantities atomically across all selections,
	// failing with domain.ErrInsufficientQuantity if any stack is short
	RemoveStacks(ctx context.Context, ownerID string, items []domain.ItemSelection) error
}
