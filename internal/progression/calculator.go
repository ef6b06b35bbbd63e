// Package progression implements prime leveling and ability upgrades: pure
// deterministic formulas used for previews, and the coordinator that commits
// changes through the ledger and reconciles its authoritative results.
package progression

import (
	"math"

	"github.com/halcyonworks/primevault/internal/domain"
)

// XPCurveBase and XPCurveExponent shape the per-level XP requirement:
// floor(100 * level^1.5)
const (
	XPCurveBase     = 100
	XPCurveExponent = 1.5
)

// PowerPerLevelFactor is the per-level power growth as a fraction of base
// power
const PowerPerLevelFactor = 0.15

// XPForLevel returns the XP required to advance from level to level+1.
// Strictly increasing for level >= 1; levels below 1 are treated as 1.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(XPCurveBase * math.Pow(float64(level), XPCurveExponent)))
}

// TotalXPForLevel returns the cumulative XP needed to reach targetLevel
// from level 1.
func TotalXPForLevel(targetLevel int) int {
	total := 0
	for level := 1; level < targetLevel; level++ {
		total += XPForLevel(level)
	}
	return total
}

// PowerForLevel returns a prime's power at a level for a rarity:
// floor(base + (level-1) * 0.15 * base).
func PowerForLevel(level int, rarity domain.Rarity) int {
	if level < 1 {
		level = 1
	}
	base := float64(domain.BasePower(rarity))
	return int(math.Floor(base + float64(level-1)*PowerPerLevelFactor*base))
}

// LevelPreview is the outcome of a simulated XP gain. It is a preview
// only - the authoritative increment happens in the ledger's atomic
// consume call, and the caller must reconcile against that result.
type LevelPreview struct {
	NewLevel     int  `json:"new_level"`
	RemainderXP  int  `json:"remainder_xp"`
	LeveledUp    bool `json:"leveled_up"`
	LevelsGained int  `json:"levels_gained"`
}

// PreviewLevelUp simulates sequential level consumption: repeatedly spend a
// full level's XP while the running total covers it and the level cap has
// not been reached. XP beyond the cap is retained as remainder.
// Negative inputs clamp to zero rather than erroring.
func PreviewLevelUp(currentLevel, currentXP, xpGain int) LevelPreview {
	if currentLevel < 1 {
		currentLevel = 1
	}
	if currentXP < 0 {
		currentXP = 0
	}
	if xpGain < 0 {
		xpGain = 0
	}

	level := currentLevel
	xp := currentXP + xpGain

	for level < domain.MaxPrimeLevel {
		need := XPForLevel(level)
		if xp < need {
			break
		}
		xp -= need
		level++
	}

	return LevelPreview{
		NewLevel:     level,
		RemainderXP:  xp,
		LeveledUp:    level > currentLevel,
		LevelsGained: level - currentLevel,
	}
}

// abilityBasePower maps ability slot index to the power of that ability at
// level 1
var abilityBasePower = [domain.AbilitySlotCount]int{120, 90, 150, 250}

// AbilityPowerForLevel returns an ability's power at a level, derived from
// the slot's base template. Out-of-range slots return 0.
func AbilityPowerForLevel(slotIndex, level int) int {
	if slotIndex < 0 || slotIndex >= domain.AbilitySlotCount {
		return 0
	}
	if level < 1 {
		level = 1
	}
	base := float64(abilityBasePower[slotIndex])
	return int(math.Floor(base + float64(level-1)*PowerPerLevelFactor*base))
}
