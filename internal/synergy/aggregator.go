package synergy

import (
	"sort"

	"github.com/halcyonworks/primevault/internal/domain"
)

// ActiveSynergy reports one tag group's activation state. Bonus is zero
// unless Active: a synergy grants nothing until the count threshold is met.
type ActiveSynergy struct {
	Tag           string             `json:"tag"`
	ActiveCount   int                `json:"active_count"`
	RequiredCount int                `json:"required_count"`
	Active        bool               `json:"active"`
	Bonus         domain.StatBonuses `json:"bonus"`
}

// Result is the aggregate of a full rune board
type Result struct {
	TotalStats domain.StatBonuses `json:"total_stats"`
	Synergies  []ActiveSynergy    `json:"synergies"`
}

// Aggregate sums every equipped rune's stat bonuses field-wise and resolves
// synergy activation per tag group. Pure and deterministic: groups are
// reported in tag order, and a group below its threshold contributes no
// bonus at all - there is no partial credit.
func Aggregate(slots [domain.RuneSlotCount]*domain.Rune) Result {
	var total domain.StatBonuses
	counts := make(map[string]int)

	for _, r := range slots {
		if r == nil {
			continue
		}
		total = total.Add(r.Stats)
		if r.SynergyTag != "" {
			counts[r.SynergyTag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	synergies := make([]ActiveSynergy, 0, len(tags))
	for _, tag := range tags {
		def, ok := DefinitionFor(tag)
		if !ok {
			// Unknown tags count toward nothing; skip silently
			continue
		}

		active := counts[tag] >= def.RequiredCount
		entry := ActiveSynergy{
			Tag:           tag,
			ActiveCount:   counts[tag],
			RequiredCount: def.RequiredCount,
			Active:        active,
		}
		if active {
			entry.Bonus = def.Bonus
			total = total.Add(def.Bonus)
		}
		synergies = append(synergies, entry)
	}

	return Result{TotalStats: total, Synergies: synergies}
}
