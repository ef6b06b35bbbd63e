// Package synergy implements rune equipping and synergy aggregation: a
// 6-slot board per prime, a session-scoped rune store, and the pure
// aggregator that sums equipped stat bonuses and resolves active synergies.
package synergy

import "github.com/halcyonworks/primevault/internal/domain"

// Synergy tags
const (
	TagOffense  = "offense"
	TagDefense  = "defense"
	TagSpeed    = "speed"
	TagGuardian = "guardian"
	TagTempest  = "tempest"
)

// Activation thresholds: basic synergies need a pair, high-tier synergies
// need four matching runes
const (
	BasicRequiredCount    = 2
	HighTierRequiredCount = 4
)

// definitions is the static synergy rule table
var definitions = map[string]domain.SynergyDefinition{
	TagOffense: {
		Tag:           TagOffense,
		RequiredCount: BasicRequiredCount,
		Bonus:         domain.StatBonuses{Attack: 25, CritChance: 0.05},
	},
	TagDefense: {
		Tag:           TagDefense,
		RequiredCount: BasicRequiredCount,
		Bonus:         domain.StatBonuses{Defense: 30, Health: 150},
	},
	TagSpeed: {
		Tag:           TagSpeed,
		RequiredCount: BasicRequiredCount,
		Bonus:         domain.StatBonuses{Speed: 20},
	},
	TagGuardian: {
		Tag:           TagGuardian,
		RequiredCount: HighTierRequiredCount,
		Bonus:         domain.StatBonuses{Defense: 80, Health: 500, Attack: 20},
	},
	TagTempest: {
		Tag:           TagTempest,
		RequiredCount: HighTierRequiredCount,
		Bonus:         domain.StatBonuses{Attack: 60, Speed: 45, CritChance: 0.12},
	},
}

// DefinitionFor returns the synergy rule for a tag, if one exists
func DefinitionFor(tag string) (domain.SynergyDefinition, bool) {
	def, ok := definitions[tag]
	return def, ok
}
