package domain

// ExperienceItem is a fungible stack of a consumable XP item.
// XPValue comes from the numeric config tables, never hardcoded callers.
type ExperienceItem struct {
	Kind          string `json:"kind"`
	XPValue       int    `json:"xp_value"`
	QuantityOwned int    `json:"quantity_owned"`
}

// ItemSelection is one (kind, quantity) pair of a multi-item consumption request
type ItemSelection struct {
	Kind     string `json:"kind" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// Wallet holds the spendable balances the upgrade affordability gate
// checks a quote against
type Wallet struct {
	Gems    int `json:"gems"`
	Scrolls int `json:"scrolls"`
}

// CanAfford reports whether the wallet covers an upgrade quote
func (w Wallet) CanAfford(q UpgradeQuote) bool {
	return w.Gems >= q.Gems && w.Scrolls >= q.Scrolls
}

// LevelUpResult is the ledger's authoritative outcome of an atomic
// multi-item consumption + leveling call
type LevelUpResult struct {
	Success       bool   `json:"success"`
	NewLevel      int    `json:"new_level"`
	NewExperience int    `json:"new_experience"`
	NewPower      int    `json:"new_power"`
	LevelsGained  int    `json:"levels_gained"`
	Message       string `json:"message"`
}

// UpgradeQuote is an ability-upgrade cost quote.
// Estimated marks a client-side fallback computed while the quote endpoint
// was unreachable; it must be displayed as an approximation, never trusted
// as the committed cost.
type UpgradeQuote struct {
	Gems      int  `json:"gems"`
	Scrolls   int  `json:"scrolls"`
	Estimated bool `json:"estimated"`
}

// UpgradeResult is the ledger's authoritative outcome of an ability upgrade
type UpgradeResult struct {
	Success    bool   `json:"success"`
	NewLevel   int    `json:"new_level"`
	GemsCost   int    `json:"gems_cost"`
	ScrollCost int    `json:"scroll_cost"`
	Message    string `json:"message"`
}
