package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/halcyonworks/primevault/internal/domain"
)

// MemoryRepository is an in-memory ledger store for tests and local runs
type MemoryRepository struct {
	mu      sync.Mutex
	boxes   map[string]*domain.TreasureBox
	wallets map[string]domain.Wallet
	primes  map[string]*domain.Prime
	stacks  map[string]map[string]int
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		boxes:   make(map[string]*domain.TreasureBox),
		wallets: make(map[string]domain.Wallet),
		primes:  make(map[string]*domain.Prime),
		stacks:  make(map[string]map[string]int),
	}
}

// SeedOwner installs an owner's full starting state
func (r *MemoryRepository) SeedOwner(box domain.TreasureBox, wallet domain.Wallet, stacks map[string]int, primes ...*domain.Prime) {
	r.mu.Lock()
	defer r.mu.Unlock()

	boxCopy := box
	r.boxes[box.OwnerID] = &boxCopy
	r.wallets[box.OwnerID] = wallet

	owned := make(map[string]int, len(stacks))
	for kind, qty := range stacks {
		owned[kind] = qty
	}
	r.stacks[box.OwnerID] = owned

	for _, p := range primes {
		primeCopy := *p
		r.primes[p.ID] = &primeCopy
	}
}

func (r *MemoryRepository) GetBox(ctx context.Context, ownerID string) (*domain.TreasureBox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	box, ok := r.boxes[ownerID]
	if !ok {
		return nil, fmt.Errorf("%w: owner %s", domain.ErrBoxNotFound, ownerID)
	}
	boxCopy := *box
	return &boxCopy, nil
}

func (r *MemoryRepository) SettleClaim(ctx context.Context, ownerID string, resetAt time.Time, claimed int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	box, ok := r.boxes[ownerID]
	if !ok {
		return 0, fmt.Errorf("%w: owner %s", domain.ErrBoxNotFound, ownerID)
	}

	box.LastCheckpointAt = resetAt
	box.TotalLifetimeProduced += claimed

	wallet := r.wallets[ownerID]
	wallet.Gems += claimed
	r.wallets[ownerID] = wallet

	return box.TotalLifetimeProduced, nil
}

func (r *MemoryRepository) GetWallet(ctx context.Context, ownerID string) (domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wallet, ok := r.wallets[ownerID]
	if !ok {
		return domain.Wallet{}, fmt.Errorf("%w: owner %s has no wallet", domain.ErrBoxNotFound, ownerID)
	}
	return wallet, nil
}

func (r *MemoryRepository) SpendWallet(ctx context.Context, ownerID string, gems, scrolls int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[ownerID]
	if !ok {
		return fmt.Errorf("%w: owner %s has no wallet", domain.ErrBoxNotFound, ownerID)
	}
	if wallet.Gems < gems || wallet.Scrolls < scrolls {
		return fmt.Errorf("%w: need %d gems and %d scrolls", domain.ErrInsufficientFunds, gems, scrolls)
	}

	wallet.Gems -= gems
	wallet.Scrolls -= scrolls
	r.wallets[ownerID] = wallet
	return nil
}

func (r *MemoryRepository) GetPrime(ctx context.Context, primeID string) (*domain.Prime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prime, ok := r.primes[primeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPrimeNotFound, primeID)
	}
	primeCopy := *prime
	return &primeCopy, nil
}

func (r *MemoryRepository) SavePrime(ctx context.Context, prime *domain.Prime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	primeCopy := *prime
	r.primes[prime.ID] = &primeCopy
	return nil
}

func (r *MemoryRepository) GetStacks(ctx context.Context, ownerID string) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stacks := r.stacks[ownerID]
	out := make(map[string]int, len(stacks))
	for kind, qty := range stacks {
		out[kind] = qty
	}
	return out, nil
}

func (r *MemoryRepository) RemoveStacks(ctx context.Context, ownerID string, items []domain.ItemSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stacks := r.stacks[ownerID]

	// Check aggregated totals per kind first: duplicate selections must not
	// pass independent checks and drive a stack negative
	needed := make(map[string]int, len(items))
	for _, sel := range items {
		needed[sel.Kind] += sel.Quantity
	}
	for kind, qty := range needed {
		if stacks[kind] < qty {
			return fmt.Errorf("%w: %s x%d requested, %d owned", domain.ErrInsufficientQuantity, kind, qty, stacks[kind])
		}
	}

	for kind, qty := range needed {
		stacks[kind] -= qty
		if stacks[kind] == 0 {
			delete(stacks, kind)
		}
	}
	return nil
}
