// Package postgres implements the ledger repository on PostgreSQL
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/halcyonworks/primevault/internal/domain"
)

// Repository implements ledger.Repository on a pgx pool
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a PostgreSQL ledger repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetBox(ctx context.Context, ownerID string) (*domain.TreasureBox, error) {
	var box domain.TreasureBox
	err := r.db.QueryRow(ctx,
		`SELECT owner_id, production_rate_per_hour, capacity, last_checkpoint_at, total_lifetime_produced
		 FROM treasure_boxes WHERE owner_id = $1`, ownerID,
	).Scan(&box.OwnerID, &box.ProductionRatePerHour, &box.Capacity, &box.LastCheckpointAt, &box.TotalLifetimeProduced)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: owner %s", domain.ErrBoxNotFound, ownerID)
		}
		return nil, fmt.Errorf("failed to get box: %w", err)
	}
	return &box, nil
}

func (r *Repository) SettleClaim(ctx context.Context, ownerID string, resetAt time.Time, claimed int) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var newTotal int
	err = tx.QueryRow(ctx,
		`UPDATE treasure_boxes
		 SET last_checkpoint_at = $2, total_lifetime_produced = total_lifetime_produced + $3
		 WHERE owner_id = $1
		 RETURNING total_lifetime_produced`, ownerID, resetAt, claimed,
	).Scan(&newTotal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: owner %s", domain.ErrBoxNotFound, ownerID)
		}
		return 0, fmt.Errorf("failed to settle claim: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO wallets (owner_id, gems) VALUES ($1, $2)
		 ON CONFLICT (owner_id) DO UPDATE SET gems = wallets.gems + $2`, ownerID, claimed,
	); err != nil {
		return 0, fmt.Errorf("failed to credit wallet: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit claim: %w", err)
	}
	return newTotal, nil
}

func (r *Repository) GetWallet(ctx context.Context, ownerID string) (domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.db.QueryRow(ctx,
		`SELECT gems, scrolls FROM wallets WHERE owner_id = $1`, ownerID,
	).Scan(&wallet.Gems, &wallet.Scrolls)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Wallet{}, fmt.Errorf("%w: owner %s has no wallet", domain.ErrBoxNotFound, ownerID)
		}
		return domain.Wallet{}, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

func (r *Repository) SpendWallet(ctx context.Context, ownerID string, gems, scrolls int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE wallets SET gems = gems - $2, scrolls = scrolls - $3
		 WHERE owner_id = $1 AND gems >= $2 AND scrolls >= $3`, ownerID, gems, scrolls)
	if err != nil {
		return fmt.Errorf("failed to spend wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: need %d gems and %d scrolls", domain.ErrInsufficientFunds, gems, scrolls)
	}
	return nil
}

func (r *Repository) GetPrime(ctx context.Context, primeID string) (*domain.Prime, error) {
	var prime domain.Prime
	var abilities []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, owner_id, name, rarity, level, xp_in_level, power, abilities
		 FROM primes WHERE id = $1`, primeID,
	).Scan(&prime.ID, &prime.OwnerID, &prime.Name, &prime.Rarity, &prime.Level, &prime.XPInLevel, &prime.Power, &abilities)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPrimeNotFound, primeID)
		}
		return nil, fmt.Errorf("failed to get prime: %w", err)
	}

	var slots []domain.AbilitySlot
	if err := json.Unmarshal(abilities, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode abilities: %w", err)
	}
	for i := 0; i < len(slots) && i < domain.AbilitySlotCount; i++ {
		prime.Abilities[i] = slots[i]
	}

	return &prime, nil
}

func (r *Repository) SavePrime(ctx context.Context, prime *domain.Prime) error {
	abilities, err := json.Marshal(prime.Abilities[:])
	if err != nil {
		return fmt.Errorf("failed to encode abilities: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO primes (id, owner_id, name, rarity, level, xp_in_level, power, abilities)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   level = EXCLUDED.level,
		   xp_in_level = EXCLUDED.xp_in_level,
		   power = EXCLUDED.power,
		   abilities = EXCLUDED.abilities`,
		prime.ID, prime.OwnerID, prime.Name, prime.Rarity, prime.Level, prime.XPInLevel, prime.Power, abilities)
	if err != nil {
		return fmt.Errorf("failed to save prime: %w", err)
	}
	return nil
}

func (r *Repository) GetStacks(ctx context.Context, ownerID string) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kind, quantity FROM item_stacks WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stacks: %w", err)
	}
	defer rows.Close()

	stacks := make(map[string]int)
	for rows.Next() {
		var kind string
		var quantity int
		if err := rows.Scan(&kind, &quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stack: %w", err)
		}
		stacks[kind] = quantity
	}
	return stacks, rows.Err()
}

func (r *Repository) RemoveStacks(ctx context.Context, ownerID string, items []domain.ItemSelection) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, sel := range items {
		tag, err := tx.Exec(ctx,
			`UPDATE item_stacks SET quantity = quantity - $3
			 WHERE owner_id = $1 AND kind = $2 AND quantity >= $3`,
			ownerID, sel.Kind, sel.Quantity)
		if err != nil {
			return fmt.Errorf("failed to remove stack %s: %w", sel.Kind, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s x%d requested", domain.ErrInsufficientQuantity, sel.Kind, sel.Quantity)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit stack removal: %w", err)
	}
	return nil
}
