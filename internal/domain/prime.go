package domain

// MaxPrimeLevel is the hard upper bound on prime level
const MaxPrimeLevel = 100

// AbilitySlotCount is the fixed number of ability slots per prime
const AbilitySlotCount = 4

// abilityMaxLevels maps ability slot index to its level cap.
// Later slots are stronger and cap lower.
var abilityMaxLevels = [AbilitySlotCount]int{10, 10, 8, 5}

// AbilityMaxLevel returns the level cap for an ability slot index.
// Out-of-range indices return 0, which makes any upgrade attempt fail the
// level check instead of panicking.
func AbilityMaxLevel(slotIndex int) int {
	if slotIndex < 0 || slotIndex >= AbilitySlotCount {
		return 0
	}
	return abilityMaxLevels[slotIndex]
}

// Prime represents one leveled collectible entity.
// Level, XPInLevel and Power are mutated only from confirmed ledger
// responses - previews never write here.
type Prime struct {
	ID        string                        `json:"id"`
	OwnerID   string                        `json:"owner_id"`
	Name      string                        `json:"name"`
	Rarity    Rarity                        `json:"rarity"`
	Level     int                           `json:"level"`
	XPInLevel int                           `json:"xp_in_level"`
	Power     int                           `json:"power"`
	Abilities [AbilitySlotCount]AbilitySlot `json:"abilities"`
}

// AbilitySlot is one of the fixed ability slots on a prime
type AbilitySlot struct {
	Level    int `json:"level"`
	MaxLevel int `json:"max_level"`
	Power    int `json:"power"`
}

// NewAbilitySlots returns the default ability loadout for a freshly
// acquired prime: every slot at level 1 with its index-specific cap.
func NewAbilitySlots() [AbilitySlotCount]AbilitySlot {
	var slots [AbilitySlotCount]AbilitySlot
	for i := range slots {
		slots[i] = AbilitySlot{Level: 1, MaxLevel: AbilityMaxLevel(i)}
	}
	return slots
}
