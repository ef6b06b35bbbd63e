package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonworks/primevault/internal/domain"
)

func seededService(t *testing.T, checkpoint time.Time) (*service, *MemoryRepository) {
	t.Helper()

	repo := NewMemoryRepository()
	repo.SeedOwner(
		domain.TreasureBox{
			OwnerID:               "owner-1",
			ProductionRatePerHour: 10,
			Capacity:              300,
			LastCheckpointAt:      checkpoint,
		},
		domain.Wallet{Gems: 500, Scrolls: 10},
		map[string]int{"xp_potion_small": 10, "xp_potion_medium": 2},
		&domain.Prime{
			ID:        "prime-1",
			OwnerID:   "owner-1",
			Name:      "Ember Warden",
			Rarity:    domain.RarityRare,
			Level:     1,
			Power:     350,
			Abilities: domain.NewAbilitySlots(),
		},
	)

	svc := NewService(repo).(*service)
	return svc, repo
}

func TestAccrualStatus(t *testing.T) {
	checkpoint := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := seededService(t, checkpoint)
	svc.now = func() time.Time { return checkpoint.Add(5 * time.Hour) }

	status, err := svc.AccrualStatus(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 50, status.AccumulatedGems)
	assert.Equal(t, checkpoint, status.LastCheckpointAt)
	assert.False(t, status.IsFull)
}

func TestAccrualStatusUnknownOwner(t *testing.T) {
	svc, _ := seededService(t, time.Now())

	_, err := svc.AccrualStatus(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrBoxNotFound)
}

func TestClaimSettlesAndResetsCheckpoint(t *testing.T) {
	checkpoint := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	claimTime := checkpoint.Add(5 * time.Hour)
	svc, repo := seededService(t, checkpoint)
	svc.now = func() time.Time { return claimTime }

	outcome, err := svc.Claim(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 50, outcome.AmountClaimed)
	assert.Equal(t, 50, outcome.NewTotal)

	box, err := repo.GetBox(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, claimTime, box.LastCheckpointAt, "checkpoint resets to the claim instant")

	wallet, err := repo.GetWallet(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 550, wallet.Gems, "claimed gems credit the wallet")

	// An immediate second claim has nothing to collect
	outcome, err = svc.Claim(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Nothing to claim yet", outcome.Message)
}

func TestConsumeExperienceItems(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	result, err := svc.ConsumeExperienceItems(context.Background(), "owner-1", "prime-1", []domain.ItemSelection{
		{Kind: "xp_potion_small", Quantity: 3},
		{Kind: "xp_potion_medium", Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	// 800 XP: 100 to level 2, 282 to level 3, 418 remainder
	assert.Equal(t, 3, result.NewLevel)
	assert.Equal(t, 418, result.NewExperience)
	assert.Equal(t, 2, result.LevelsGained)

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	assert.Equal(t, 3, prime.Level)

	stacks, err := repo.GetStacks(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 7, stacks["xp_potion_small"])
	assert.Equal(t, 1, stacks["xp_potion_medium"])
}

func TestConsumeInsufficientQuantityIsAtomic(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	result, err := svc.ConsumeExperienceItems(context.Background(), "owner-1", "prime-1", []domain.ItemSelection{
		{Kind: "xp_potion_small", Quantity: 3},
		{Kind: "xp_potion_medium", Quantity: 99},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)

	// Neither stack was touched and the prime did not level
	stacks, err := repo.GetStacks(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 10, stacks["xp_potion_small"])
	assert.Equal(t, 2, stacks["xp_potion_medium"])

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	assert.Equal(t, 1, prime.Level)
}

func TestConsumeDuplicateKindSelections(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	// 6+6 of a kind with 10 owned: each entry passes alone, the total does
	// not. The stack must never go negative and no XP may be granted.
	result, err := svc.ConsumeExperienceItems(context.Background(), "owner-1", "prime-1", []domain.ItemSelection{
		{Kind: "xp_potion_small", Quantity: 6},
		{Kind: "xp_potion_small", Quantity: 6},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)

	stacks, err := repo.GetStacks(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 10, stacks["xp_potion_small"])

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	assert.Equal(t, 1, prime.Level)
	assert.Equal(t, 0, prime.XPInLevel)
}

func TestConsumeDuplicateKindsWithinHoldings(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	// Duplicates that fit the owned total are a valid split selection
	result, err := svc.ConsumeExperienceItems(context.Background(), "owner-1", "prime-1", []domain.ItemSelection{
		{Kind: "xp_potion_small", Quantity: 2},
		{Kind: "xp_potion_small", Quantity: 3},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	stacks, err := repo.GetStacks(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 5, stacks["xp_potion_small"])
}

func TestConsumeChecksOwnership(t *testing.T) {
	svc, _ := seededService(t, time.Now())

	_, err := svc.ConsumeExperienceItems(context.Background(), "someone-else", "prime-1", []domain.ItemSelection{
		{Kind: "xp_potion_small", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrPrimeNotFound)
}

func TestConsumeUnknownItem(t *testing.T) {
	svc, _ := seededService(t, time.Now())

	_, err := svc.ConsumeExperienceItems(context.Background(), "owner-1", "prime-1", []domain.ItemSelection{
		{Kind: "mystery_meat", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestQuoteUpgrade(t *testing.T) {
	svc, _ := seededService(t, time.Now())

	quote, err := svc.QuoteUpgrade(context.Background(), "prime-1", 0, 1)
	require.NoError(t, err)
	assert.True(t, quote.Valid)
	// floor(40 * 2 * 1.0 * (1 + 0.3*1)) for a rare prime, slot 0, level 1
	assert.Equal(t, 104, quote.GemsCost)
	assert.Equal(t, 1, quote.ScrollCost)

	// Out-of-range slot and capped abilities decline rather than error
	quote, err = svc.QuoteUpgrade(context.Background(), "prime-1", 9, 1)
	require.NoError(t, err)
	assert.False(t, quote.Valid)

	quote, err = svc.QuoteUpgrade(context.Background(), "prime-1", 0, 10)
	require.NoError(t, err)
	assert.False(t, quote.Valid)
}

func TestApplyUpgradeDebitsWallet(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	result, err := svc.ApplyUpgrade(context.Background(), "prime-1", 0, 1)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, 104, result.GemsCost)
	assert.Equal(t, 1, result.ScrollCost)

	wallet, err := repo.GetWallet(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 500-104, wallet.Gems)
	assert.Equal(t, 9, wallet.Scrolls)

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	assert.Equal(t, 2, prime.Abilities[0].Level)
}

func TestApplyUpgradeReanchorsStaleLevel(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	// Client claims level 5; the stored ability is level 1. Cost derives
	// from the stored level.
	result, err := svc.ApplyUpgrade(context.Background(), "prime-1", 0, 5)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.NewLevel)

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	assert.Equal(t, 2, prime.Abilities[0].Level)
}

func TestApplyUpgradeInsufficientFunds(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	// Drain the wallet first
	require.NoError(t, repo.SpendWallet(context.Background(), "owner-1", 450, 0))

	result, err := svc.ApplyUpgrade(context.Background(), "prime-1", 0, 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 104, result.GemsCost, "rejection reports the real cost")

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	assert.Equal(t, 1, prime.Abilities[0].Level, "rejected upgrade mutates nothing")
}

func TestApplyUpgradeAtCap(t *testing.T) {
	svc, repo := seededService(t, time.Now())

	prime, err := repo.GetPrime(context.Background(), "prime-1")
	require.NoError(t, err)
	prime.Abilities[3].Level = prime.Abilities[3].MaxLevel
	require.NoError(t, repo.SavePrime(context.Background(), prime))

	result, err := svc.ApplyUpgrade(context.Background(), "prime-1", 3, prime.Abilities[3].Level)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestNumericConfig(t *testing.T) {
	svc, _ := seededService(t, time.Now())

	values, err := svc.NumericConfig(context.Background(), "xp_item_values")
	require.NoError(t, err)
	assert.Equal(t, 100.0, values["xp_potion_small"])

	_, err = svc.NumericConfig(context.Background(), "no_such_table")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Callers get a copy, not the live table
	values["xp_potion_small"] = 0
	again, err := svc.NumericConfig(context.Background(), "xp_item_values")
	require.NoError(t, err)
	assert.Equal(t, 100.0, again["xp_potion_small"])
}
