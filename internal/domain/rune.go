package domain

// RuneSlotCount is the fixed number of rune equip slots per prime
const RuneSlotCount = 6

// SlotUnequipped marks a rune that is not equipped anywhere
const SlotUnequipped = -1

// StatBonuses is the closed set of numeric stats a rune can grant.
// Named fields instead of an open map so aggregation never needs runtime
// type probing.
type StatBonuses struct {
	Attack     float64 `json:"attack,omitempty"`
	Defense    float64 `json:"defense,omitempty"`
	Speed      float64 `json:"speed,omitempty"`
	Health     float64 `json:"health,omitempty"`
	CritChance float64 `json:"crit_chance,omitempty"`
}

// Add returns the field-wise sum of two bonus sets
func (b StatBonuses) Add(other StatBonuses) StatBonuses {
	return StatBonuses{
		Attack:     b.Attack + other.Attack,
		Defense:    b.Defense + other.Defense,
		Speed:      b.Speed + other.Speed,
		Health:     b.Health + other.Health,
		CritChance: b.CritChance + other.CritChance,
	}
}

// IsZero reports whether every stat field is zero
func (b StatBonuses) IsZero() bool {
	return b == StatBonuses{}
}

// Rune is an equip-once modifier. EquippedSlot is SlotUnequipped or 0..5;
// a rune occupies at most one slot across the whole collection at any time.
// EquippedSlot is mutated locally for immediate feedback and reconciled
// against the ledger's equip acknowledgment.
type Rune struct {
	ID           string      `json:"id"`
	Tier         Rarity      `json:"tier"`
	Level        int         `json:"level"`
	Stats        StatBonuses `json:"stats"`
	SynergyTag   string      `json:"synergy_tag"`
	EquippedSlot int         `json:"equipped_slot"`
}

// Equipped reports whether the rune currently occupies a board slot
func (r *Rune) Equipped() bool {
	return r.EquippedSlot != SlotUnequipped
}

// SynergyDefinition is a static activation rule: the bonus applies only
// while at least RequiredCount equipped runes share Tag.
type SynergyDefinition struct {
	Tag           string      `json:"tag"`
	RequiredCount int         `json:"required_count"`
	Bonus         StatBonuses `json:"bonus"`
}
