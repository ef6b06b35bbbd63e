package gameconfig

// Config table keys served by the ledger
const (
	KeyXPItemValues = "xp_item_values"
	KeyShopPrices   = "shop_prices"
)

// Built-in fallback tables. Used whenever the remote config endpoint is
// unavailable - the engine degrades to these rather than failing closed.
// The ledger's tables always win when reachable.

// defaultXPItemValues maps XP item kind to the XP granted per unit
var defaultXPItemValues = map[string]float64{
	"xp_potion_small":  100,
	"xp_potion_medium": 500,
	"xp_potion_large":  2000,
	"xp_tome":          10000,
}

// defaultShopPrices maps shop entry key to its gem price
var defaultShopPrices = map[string]float64{
	"xp_potion_small":  50,
	"xp_potion_medium": 220,
	"xp_potion_large":  800,
	"xp_tome":          3500,
	"upgrade_scroll":   150,
}

// defaultTables indexes the fallback tables by config key
var defaultTables = map[string]map[string]float64{
	KeyXPItemValues: defaultXPItemValues,
	KeyShopPrices:   defaultShopPrices,
}

// DefaultTable returns a copy of the built-in table for key, or nil if the
// key has no fallback.
func DefaultTable(key string) map[string]float64 {
	table, ok := defaultTables[key]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}
