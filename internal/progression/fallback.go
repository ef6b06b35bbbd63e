package progression

import (
	"math"

	"github.com/halcyonworks/primevault/internal/domain"
)

// Fallback ability-upgrade cost shape. The ledger's cost endpoint is the
// real source of truth; this client-side approximation is served only while
// that endpoint is unreachable and is always marked Estimated so the UI can
// distinguish it from a real quote. It may drift from the server formula.
const (
	fallbackGemBase      = 50
	fallbackScrollEvery  = 3 // one extra scroll per this many ability levels
	fallbackRarityFactor = 0.25
)

// fallbackSlotFactor scales cost by ability slot; later slots cost more
var fallbackSlotFactor = [domain.AbilitySlotCount]float64{1.0, 1.0, 1.5, 2.5}

// FallbackUpgradeCost computes the best-effort local cost estimate for
// upgrading an ability from currentLevel to currentLevel+1.
func FallbackUpgradeCost(currentLevel, slotIndex int, ownerRarity domain.Rarity) domain.UpgradeQuote {
	if currentLevel < 1 {
		currentLevel = 1
	}

	slotFactor := 1.0
	if slotIndex >= 0 && slotIndex < domain.AbilitySlotCount {
		slotFactor = fallbackSlotFactor[slotIndex]
	}
	rarityFactor := 1.0 + fallbackRarityFactor*float64(ownerRarity.Rank())

	gems := int(math.Floor(float64(fallbackGemBase) * float64(currentLevel+1) * slotFactor * rarityFactor))
	scrolls := 1 + currentLevel/fallbackScrollEvery

	return domain.UpgradeQuote{
		Gems:      gems,
		Scrolls:   scrolls,
		Estimated: true,
	}
}
