package domain

import "fmt"

// Rarity is the ordered classification that scales base power and upgrade costs
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythical  Rarity = "mythical"
)

// basePower maps each rarity to the power of a level-1 prime
var basePower = map[Rarity]int{
	RarityCommon:    200,
	RarityRare:      350,
	RarityEpic:      500,
	RarityLegendary: 750,
	RarityMythical:  1000,
}

// rarityRank orders rarities for comparisons and cost scaling
var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityRare:      1,
	RarityEpic:      2,
	RarityLegendary: 3,
	RarityMythical:  4,
}

// BasePower returns the level-1 power for a rarity.
// Unknown rarities fall back to common rather than erroring - the value is
// display-adjacent and the ledger owns the real number.
func BasePower(r Rarity) int {
	if p, ok := basePower[r]; ok {
		return p
	}
	return basePower[RarityCommon]
}

// Rank returns the ordinal position of the rarity (common=0 .. mythical=4)
func (r Rarity) Rank() int {
	return rarityRank[r]
}

// Valid reports whether the rarity is a known tier
func (r Rarity) Valid() bool {
	_, ok := rarityRank[r]
	return ok
}

// ParseRarity validates a raw string into a Rarity
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown rarity %q", ErrInvalidInput, s)
	}
	return r, nil
}
