// Package ledger is a reference implementation of the authoritative store
// the engine reconciles against. It exists for local development and
// integration testing; it shares the engine's deterministic formulas so
// client previews and server results agree bit-for-bit, but it implements
// no anti-cheat and is not the production ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/halcyonworks/primevault/internal/accrual"
	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/gameconfig"
	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/progression"
)

// Server-side ability upgrade cost shape. Deliberately not the same
// constants as the client fallback: the fallback is a best-effort
// approximation, and keeping them apart exercises the reconcile path.
const (
	upgradeGemBase     = 40
	upgradeScrollEvery = 2
	upgradeRarityStep  = 0.3
)

var upgradeSlotFactor = [domain.AbilitySlotCount]float64{1.0, 1.0, 1.6, 2.8}

// QuoteResponse is the ledger's cost quote payload
type QuoteResponse struct {
	GemsCost   int  `json:"gems_cost"`
	ScrollCost int  `json:"scroll_cost"`
	Valid      bool `json:"valid"`
}

// Service implements the procedure contracts the engine depends on
type Service interface {
	AccrualStatus(ctx context.Context, ownerID string) (*domain.AccrualStatus, error)
	Claim(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error)
	ConsumeExperienceItems(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error)
	QuoteUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*QuoteResponse, error)
	ApplyUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error)
	NumericConfig(ctx context.Context, key string) (map[string]float64, error)
}

type service struct {
	repo   Repository
	tables map[string]map[string]float64
	now    func() time.Time
}

// NewService creates a ledger service over a repository. The numeric config
// tables are seeded from the engine's built-in defaults; operators can
// override them before serving.
func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		tables: map[string]map[string]float64{
			gameconfig.KeyXPItemValues: gameconfig.DefaultTable(gameconfig.KeyXPItemValues),
			gameconfig.KeyShopPrices:   gameconfig.DefaultTable(gameconfig.KeyShopPrices),
		},
		now: time.Now,
	}
}

func (s *service) AccrualStatus(ctx context.Context, ownerID string) (*domain.AccrualStatus, error) {
	box, err := s.repo.GetBox(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get box: %w", err)
	}

	projection := accrual.Simulate(*box, s.now())
	return &domain.AccrualStatus{
		ProductionRatePerHour: box.ProductionRatePerHour,
		Capacity:              box.Capacity,
		LastCheckpointAt:      box.LastCheckpointAt,
		AccumulatedGems:       projection.Accumulated,
		IsFull:                projection.FillFraction >= 1,
	}, nil
}

func (s *service) Claim(ctx context.Context, ownerID string) (*domain.ClaimOutcome, error) {
	log := logger.FromContext(ctx)

	box, err := s.repo.GetBox(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get box: %w", err)
	}

	now := s.now()
	accumulated := accrual.Simulate(*box, now).Accumulated
	if accumulated <= 0 {
		return &domain.ClaimOutcome{
			Success: false,
			Message: "Nothing to claim yet",
		}, nil
	}

	newTotal, err := s.repo.SettleClaim(ctx, ownerID, now, accumulated)
	if err != nil {
		return nil, fmt.Errorf("failed to settle claim: %w", err)
	}

	log.Info("Claim settled", "ownerID", ownerID, "claimed", accumulated, "newTotal", newTotal)
	return &domain.ClaimOutcome{
		Success:       true,
		AmountClaimed: accumulated,
		NewTotal:      newTotal,
		Message:       fmt.Sprintf("Claimed %d gems", accumulated),
	}, nil
}

func (s *service) ConsumeExperienceItems(ctx context.Context, ownerID, primeID string, items []domain.ItemSelection) (*domain.LevelUpResult, error) {
	log := logger.FromContext(ctx)

	prime, err := s.repo.GetPrime(ctx, primeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prime: %w", err)
	}
	if prime.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: prime %s does not belong to owner %s", domain.ErrPrimeNotFound, primeID, ownerID)
	}
	if prime.Level >= domain.MaxPrimeLevel {
		return &domain.LevelUpResult{
			Success: false,
			Message: domain.ErrMsgMaxLevel,
		}, nil
	}

	xpValues := s.tables[gameconfig.KeyXPItemValues]
	totalXP := 0
	for _, sel := range items {
		if sel.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", domain.ErrInvalidInput, sel.Kind)
		}
		value, ok := xpValues[sel.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, sel.Kind)
		}
		totalXP += int(value) * sel.Quantity
	}

	if err := s.repo.RemoveStacks(ctx, ownerID, items); err != nil {
		if errors.Is(err, domain.ErrInsufficientQuantity) {
			return &domain.LevelUpResult{Success: false, Message: err.Error()}, nil
		}
		return nil, fmt.Errorf("failed to remove stacks: %w", err)
	}

	result := progression.PreviewLevelUp(prime.Level, prime.XPInLevel, totalXP)
	prime.Level = result.NewLevel
	prime.XPInLevel = result.RemainderXP
	prime.Power = progression.PowerForLevel(prime.Level, prime.Rarity)

	if err := s.repo.SavePrime(ctx, prime); err != nil {
		return nil, fmt.Errorf("failed to save prime: %w", err)
	}

	log.Info("Experience items consumed", "primeID", primeID, "totalXP", totalXP, "newLevel", prime.Level)
	return &domain.LevelUpResult{
		Success:       true,
		NewLevel:      prime.Level,
		NewExperience: prime.XPInLevel,
		NewPower:      prime.Power,
		LevelsGained:  result.LevelsGained,
		Message:       levelUpMessage(result.LevelsGained),
	}, nil
}

func (s *service) QuoteUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*QuoteResponse, error) {
	prime, err := s.repo.GetPrime(ctx, primeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prime: %w", err)
	}

	if slotIndex < 0 || slotIndex >= domain.AbilitySlotCount {
		return &QuoteResponse{Valid: false}, nil
	}
	if currentLevel >= prime.Abilities[slotIndex].MaxLevel {
		return &QuoteResponse{Valid: false}, nil
	}

	gems, scrolls := upgradeCost(currentLevel, slotIndex, prime.Rarity)
	return &QuoteResponse{GemsCost: gems, ScrollCost: scrolls, Valid: true}, nil
}

func (s *service) ApplyUpgrade(ctx context.Context, primeID string, slotIndex, currentLevel int) (*domain.UpgradeResult, error) {
	log := logger.FromContext(ctx)

	prime, err := s.repo.GetPrime(ctx, primeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prime: %w", err)
	}
	if slotIndex < 0 || slotIndex >= domain.AbilitySlotCount {
		return nil, fmt.Errorf("%w: ability slot %d", domain.ErrSlotOutOfRange, slotIndex)
	}

	slot := prime.Abilities[slotIndex]
	if currentLevel != slot.Level {
		// Stale client: re-anchor on the stored level rather than trusting
		// the request
		currentLevel = slot.Level
	}
	if currentLevel >= slot.MaxLevel {
		return &domain.UpgradeResult{
			Success: false,
			Message: domain.ErrMsgAbilityMaxLevel,
		}, nil
	}

	// Cost is always re-derived server-side; quotes are never trusted
	gems, scrolls := upgradeCost(currentLevel, slotIndex, prime.Rarity)

	if err := s.repo.SpendWallet(ctx, prime.OwnerID, gems, scrolls); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return &domain.UpgradeResult{
				Success:    false,
				GemsCost:   gems,
				ScrollCost: scrolls,
				Message:    err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("failed to spend wallet: %w", err)
	}

	prime.Abilities[slotIndex].Level = currentLevel + 1
	prime.Abilities[slotIndex].Power = progression.AbilityPowerForLevel(slotIndex, currentLevel+1)
	if err := s.repo.SavePrime(ctx, prime); err != nil {
		return nil, fmt.Errorf("failed to save prime: %w", err)
	}

	log.Info("Ability upgraded", "primeID", primeID, "slot", slotIndex, "newLevel", currentLevel+1)
	return &domain.UpgradeResult{
		Success:    true,
		NewLevel:   currentLevel + 1,
		GemsCost:   gems,
		ScrollCost: scrolls,
		Message:    "Ability upgraded",
	}, nil
}

func (s *service) NumericConfig(ctx context.Context, key string) (map[string]float64, error) {
	table, ok := s.tables[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown config key %s", domain.ErrInvalidInput, key)
	}

	// Served as a copy so handler-side mutation cannot corrupt the table
	out := make(map[string]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out, nil
}

// upgradeCost is the authoritative ability-upgrade cost formula
func upgradeCost(currentLevel, slotIndex int, rarity domain.Rarity) (gems, scrolls int) {
	slotFactor := upgradeSlotFactor[slotIndex]
	rarityFactor := 1.0 + upgradeRarityStep*float64(rarity.Rank())
	gems = int(math.Floor(float64(upgradeGemBase) * float64(currentLevel+1) * slotFactor * rarityFactor))
	scrolls = 1 + currentLevel/upgradeScrollEvery
	return gems, scrolls
}

func levelUpMessage(levelsGained int) string {
	switch {
	case levelsGained == 0:
		return "Experience applied"
	case levelsGained == 1:
		return "Level up!"
	default:
		return fmt.Sprintf("Leveled up %d times!", levelsGained)
	}
}
