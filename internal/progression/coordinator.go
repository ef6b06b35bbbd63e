package progression

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/halcyonworks/primevault/internal/domain"
	"github.com/halcyonworks/primevault/internal/gameconfig"
	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/metrics"
	"github.com/halcyonworks/primevault/internal/remote"
)

// Coordinator orchestrates XP-consumption and ability-upgrade flows.
// Local formulas are used only for previews and affordability gating; every
// committed change comes back from the ledger's atomic endpoints and is
// reconciled onto the owned prime.
type Coordinator struct {
	client remote.Client
	cfg    gameconfig.Provider

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCoordinator creates an upgrade coordinator over the remote boundary
func NewCoordinator(client remote.Client, cfg gameconfig.Provider) *Coordinator {
	return &Coordinator{
		client:   client,
		cfg:      cfg,
		inflight: make(map[string]struct{}),
	}
}

// PreviewConsume computes the total XP a selection would grant (per the
// config tables) and the level preview that follows. Pure apart from the
// config lookup; nothing is committed.
func (c *Coordinator) PreviewConsume(ctx context.Context, prime *domain.Prime, selections []domain.ItemSelection) (LevelPreview, int, error) {
	if err := validateSelections(selections); err != nil {
		return LevelPreview{}, 0, err
	}

	totalXP := 0
	for _, sel := range selections {
		xpValue := c.cfg.XPValueFor(ctx, sel.Kind)
		if xpValue <= 0 {
			return LevelPreview{}, 0, fmt.Errorf("%w: %s grants no experience", domain.ErrItemNotFound, sel.Kind)
		}
		totalXP += xpValue * sel.Quantity
	}

	return PreviewLevelUp(prime.Level, prime.XPInLevel, totalXP), totalXP, nil
}

// ConsumeExperienceItems validates a selection against local holdings,
// commits it through the ledger's atomic consume endpoint, and reconciles
// the prime to the authoritative result. owned maps item kind to the
// locally known quantity and gates obviously doomed requests before any
// network call.
func (c *Coordinator) ConsumeExperienceItems(ctx context.Context, ownerID string, prime *domain.Prime, selections []domain.ItemSelection, owned map[string]int) (*domain.LevelUpResult, error) {
	log := logger.FromContext(ctx)

	if prime == nil {
		return nil, fmt.Errorf("%w: prime is required", domain.ErrInvalidInput)
	}
	if prime.Level >= domain.MaxPrimeLevel {
		return nil, domain.ErrMaxLevel
	}
	if err := validateSelections(selections); err != nil {
		return nil, err
	}
	// Totals are checked per kind so duplicate selections of the same item
	// cannot slip past independent per-entry checks
	needed := make(map[string]int, len(selections))
	for _, sel := range selections {
		needed[sel.Kind] += sel.Quantity
	}
	for _, sel := range selections {
		if owned[sel.Kind] < needed[sel.Kind] {
			return nil, fmt.Errorf("%w: %s x%d requested, %d owned", domain.ErrInsufficientQuantity, sel.Kind, needed[sel.Kind], owned[sel.Kind])
		}
	}

	preview, totalXP, err := c.PreviewConsume(ctx, prime, selections)
	if err != nil {
		return nil, err
	}

	key := "levelup:" + prime.ID
	if !c.acquire(key) {
		log.Warn("Level-up suppressed, another request is in flight", "primeID", prime.ID)
		return nil, domain.ErrUpgradeInFlight
	}
	defer c.release(key)

	log.Info("Consuming experience items", "primeID", prime.ID, "totalXP", totalXP, "previewLevel", preview.NewLevel)

	result, err := c.client.ConsumeExperienceItems(ctx, ownerID, prime.ID, selections)
	if err != nil {
		log.Error("Consume experience items failed", "primeID", prime.ID, "error", err)
		return nil, err
	}

	if !result.Success {
		// Authoritative rejection: surface verbatim, mutate nothing
		log.Warn("Level-up rejected by ledger", "primeID", prime.ID, "message", result.Message)
		return result, nil
	}

	if result.NewLevel != preview.NewLevel || result.NewExperience != preview.RemainderXP {
		metrics.PreviewMismatches.Inc()
		log.Warn("Level-up preview disagreed with ledger result",
			"primeID", prime.ID,
			"previewLevel", preview.NewLevel, "ledgerLevel", result.NewLevel,
			"previewXP", preview.RemainderXP, "ledgerXP", result.NewExperience)
	}

	// The ledger result is ground truth
	prime.Level = result.NewLevel
	prime.XPInLevel = result.NewExperience
	prime.Power = result.NewPower

	if result.LevelsGained > 0 {
		metrics.LevelUpsApplied.WithLabelValues(string(prime.Rarity)).Add(float64(result.LevelsGained))
	}
	for _, sel := range selections {
		metrics.XPItemsConsumed.WithLabelValues(sel.Kind).Add(float64(sel.Quantity))
	}

	log.Info("Level-up confirmed", "primeID", prime.ID, "newLevel", result.NewLevel, "levelsGained", result.LevelsGained)
	return result, nil
}

// QuoteUpgrade fetches the authoritative upgrade cost for an ability slot.
// When the quote endpoint is unreachable it degrades to the client-side
// fallback formula with Estimated=true; any other failure propagates.
func (c *Coordinator) QuoteUpgrade(ctx context.Context, prime *domain.Prime, slotIndex int) (*domain.UpgradeQuote, error) {
	log := logger.FromContext(ctx)

	slot, err := abilityAt(prime, slotIndex)
	if err != nil {
		return nil, err
	}
	if slot.Level >= slot.MaxLevel {
		return nil, domain.ErrAbilityMaxLevel
	}

	quote, err := c.client.QuoteAbilityUpgradeCost(ctx, prime.ID, slotIndex, slot.Level, prime.Rarity)
	if err != nil {
		if errors.Is(err, domain.ErrTransient) {
			fallback := FallbackUpgradeCost(slot.Level, slotIndex, prime.Rarity)
			metrics.FallbackQuotesServed.Inc()
			log.Warn("Quote endpoint unreachable, serving estimated cost",
				"primeID", prime.ID, "slot", slotIndex, "gems", fallback.Gems, "scrolls", fallback.Scrolls)
			return &fallback, nil
		}
		return nil, err
	}

	return quote, nil
}

// ApplyUpgrade commits an ability upgrade through the ledger. The wallet is
// checked against the quote first so an unaffordable upgrade never costs a
// round trip; the ledger still re-validates the real cost server-side.
func (c *Coordinator) ApplyUpgrade(ctx context.Context, prime *domain.Prime, slotIndex int, quote domain.UpgradeQuote, wallet domain.Wallet) (*domain.UpgradeResult, error) {
	log := logger.FromContext(ctx)

	slot, err := abilityAt(prime, slotIndex)
	if err != nil {
		return nil, err
	}
	if slot.Level >= slot.MaxLevel {
		return nil, domain.ErrAbilityMaxLevel
	}

	if !wallet.CanAfford(quote) {
		metrics.UpgradesBlockedLocally.Inc()
		return nil, fmt.Errorf("%w: need %d gems and %d scrolls", domain.ErrInsufficientFunds, quote.Gems, quote.Scrolls)
	}

	key := fmt.Sprintf("upgrade:%s:%d", prime.ID, slotIndex)
	if !c.acquire(key) {
		log.Warn("Ability upgrade suppressed, another request is in flight", "primeID", prime.ID, "slot", slotIndex)
		return nil, domain.ErrUpgradeInFlight
	}
	defer c.release(key)

	result, err := c.client.ApplyAbilityUpgrade(ctx, prime.ID, slotIndex, slot.Level)
	if err != nil {
		log.Error("Ability upgrade failed", "primeID", prime.ID, "slot", slotIndex, "error", err)
		return nil, err
	}

	if !result.Success {
		log.Warn("Ability upgrade rejected by ledger", "primeID", prime.ID, "slot", slotIndex, "message", result.Message)
		return result, nil
	}

	if !quote.Estimated && (result.GemsCost != quote.Gems || result.ScrollCost != quote.Scrolls) {
		metrics.PreviewMismatches.Inc()
		log.Warn("Committed cost disagreed with quote",
			"primeID", prime.ID, "slot", slotIndex,
			"quotedGems", quote.Gems, "actualGems", result.GemsCost,
			"quotedScrolls", quote.Scrolls, "actualScrolls", result.ScrollCost)
	}

	prime.Abilities[slotIndex].Level = result.NewLevel
	prime.Abilities[slotIndex].Power = AbilityPowerForLevel(slotIndex, result.NewLevel)

	metrics.AbilityUpgrades.Inc()
	log.Info("Ability upgrade confirmed", "primeID", prime.ID, "slot", slotIndex, "newLevel", result.NewLevel)
	return result, nil
}

// acquire marks an operation key in flight; returns false if already held
func (c *Coordinator) acquire(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return false
	}
	c.inflight[key] = struct{}{}
	return true
}

func (c *Coordinator) release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

func validateSelections(selections []domain.ItemSelection) error {
	if len(selections) == 0 {
		return fmt.Errorf("%w: no items selected", domain.ErrInvalidInput)
	}
	for _, sel := range selections {
		if sel.Kind == "" {
			return fmt.Errorf("%w: item kind is required", domain.ErrInvalidInput)
		}
		if sel.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for %s must be positive", domain.ErrInvalidInput, sel.Kind)
		}
	}
	return nil
}

func abilityAt(prime *domain.Prime, slotIndex int) (*domain.AbilitySlot, error) {
	if prime == nil {
		return nil, fmt.Errorf("%w: prime is required", domain.ErrInvalidInput)
	}
	if slotIndex < 0 || slotIndex >= domain.AbilitySlotCount {
		return nil, fmt.Errorf("%w: ability slot %d", domain.ErrSlotOutOfRange, slotIndex)
	}
	return &prime.Abilities[slotIndex], nil
}
