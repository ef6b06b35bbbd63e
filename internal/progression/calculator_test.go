package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halcyonworks/primevault/internal/domain"
)

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 282},  // floor(100 * 2^1.5)
		{4, 800},  // exact: 100 * 8
		{5, 1118}, // floor(100 * 5^1.5)
		{0, 100},  // clamps to level 1
		{-3, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, XPForLevel(tt.level), "level %d", tt.level)
	}
}

func TestXPCurveStrictlyIncreasing(t *testing.T) {
	prev := 0
	for level := 1; level < domain.MaxPrimeLevel; level++ {
		need := XPForLevel(level)
		assert.Greater(t, need, prev, "requirement must grow at level %d", level)
		prev = need
	}
}

func TestTotalXPForLevel(t *testing.T) {
	assert.Equal(t, 0, TotalXPForLevel(1))
	assert.Equal(t, 100, TotalXPForLevel(2))
	assert.Equal(t, 100+282, TotalXPForLevel(3))
}

func TestPowerForLevel(t *testing.T) {
	// floor(base + (level-1) * 0.15 * base)
	assert.Equal(t, 200, PowerForLevel(1, domain.RarityCommon))
	assert.Equal(t, 230, PowerForLevel(2, domain.RarityCommon))
	assert.Equal(t, 350, PowerForLevel(1, domain.RarityRare))
	assert.Equal(t, 1000, PowerForLevel(1, domain.RarityMythical))

	// Same level, higher rarity, strictly more power
	rarities := []domain.Rarity{
		domain.RarityCommon, domain.RarityRare, domain.RarityEpic,
		domain.RarityLegendary, domain.RarityMythical,
	}
	for i := 1; i < len(rarities); i++ {
		assert.Greater(t, PowerForLevel(10, rarities[i]), PowerForLevel(10, rarities[i-1]))
	}
}

func TestPreviewLevelUp(t *testing.T) {
	tests := []struct {
		name         string
		level        int
		xpInLevel    int
		gain         int
		wantLevel    int
		wantRemain   int
		wantLeveled  bool
		wantLevelsUp int
	}{
		{
			name:  "exact requirement levels with zero remainder",
			level: 1, xpInLevel: 0, gain: 100,
			wantLevel: 2, wantRemain: 0, wantLeveled: true, wantLevelsUp: 1,
		},
		{
			name:  "one short of the requirement",
			level: 1, xpInLevel: 0, gain: 99,
			wantLevel: 1, wantRemain: 99,
		},
		{
			name:  "multi-level jump carries remainder",
			level: 1, xpInLevel: 0, gain: 500,
			// 500 - 100 (level 1) - 282 (level 2) = 118, level 3 needs 519
			wantLevel: 3, wantRemain: 118, wantLeveled: true, wantLevelsUp: 2,
		},
		{
			name:  "existing partial progress counts",
			level: 1, xpInLevel: 60, gain: 40,
			wantLevel: 2, wantRemain: 0, wantLeveled: true, wantLevelsUp: 1,
		},
		{
			name:  "level 5 exact threshold",
			level: 5, xpInLevel: 0, gain: 1118,
			wantLevel: 6, wantRemain: 0, wantLeveled: true, wantLevelsUp: 1,
		},
		{
			name:  "capped at max level, overflow retained",
			level: domain.MaxPrimeLevel - 1, xpInLevel: 0, gain: 10_000_000,
			wantLevel:  domain.MaxPrimeLevel,
			wantRemain: 10_000_000 - XPForLevel(domain.MaxPrimeLevel-1),
			wantLeveled: true, wantLevelsUp: 1,
		},
		{
			name:  "zero gain is a no-op",
			level: 7, xpInLevel: 42, gain: 0,
			wantLevel: 7, wantRemain: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PreviewLevelUp(tt.level, tt.xpInLevel, tt.gain)
			assert.Equal(t, tt.wantLevel, p.NewLevel)
			assert.Equal(t, tt.wantRemain, p.RemainderXP)
			assert.Equal(t, tt.wantLeveled, p.LeveledUp)
			assert.Equal(t, tt.wantLevelsUp, p.LevelsGained)
		})
	}
}

func TestAbilityPowerForLevel(t *testing.T) {
	for slot := 0; slot < domain.AbilitySlotCount; slot++ {
		prev := 0
		for level := 1; level <= domain.AbilityMaxLevel(slot); level++ {
			power := AbilityPowerForLevel(slot, level)
			assert.Greater(t, power, prev, "slot %d level %d", slot, level)
			prev = power
		}
	}

	assert.Equal(t, 0, AbilityPowerForLevel(-1, 3))
	assert.Equal(t, 0, AbilityPowerForLevel(domain.AbilitySlotCount, 3))
}

func TestFallbackUpgradeCost(t *testing.T) {
	q := FallbackUpgradeCost(1, 0, domain.RarityCommon)
	assert.True(t, q.Estimated, "fallback quotes are always marked estimated")
	assert.Positive(t, q.Gems)
	assert.Positive(t, q.Scrolls)

	// Cost grows with level, slot, and rarity
	assert.Greater(t, FallbackUpgradeCost(5, 0, domain.RarityCommon).Gems, FallbackUpgradeCost(1, 0, domain.RarityCommon).Gems)
	assert.Greater(t, FallbackUpgradeCost(1, 3, domain.RarityCommon).Gems, FallbackUpgradeCost(1, 0, domain.RarityCommon).Gems)
	assert.Greater(t, FallbackUpgradeCost(1, 0, domain.RarityMythical).Gems, FallbackUpgradeCost(1, 0, domain.RarityCommon).Gems)
}
