// Package gameconfig supplies server-tunable numeric tables (item XP values,
// shop prices) as a read-through cache over the ledger's config endpoint,
// with built-in defaults when the ledger is unreachable.
package gameconfig

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/halcyonworks/primevault/internal/logger"
	"github.com/halcyonworks/primevault/internal/remote"
)

// TableSchemaVersion is the current version of cached config tables.
// Increment when the cached data shape changes to auto-invalidate old entries.
const TableSchemaVersion = "1.0"

// Provider supplies tunable numeric values. Lookups never fail closed:
// a missing table or unreachable ledger falls back to built-in defaults.
type Provider interface {
	// Table returns the numeric table for a config key.
	Table(ctx context.Context, key string) map[string]float64

	// XPValueFor returns the XP granted per unit of an item kind, or 0 for
	// an unknown kind.
	XPValueFor(ctx context.Context, kind string) int

	// ShopPrice returns the gem price for a shop entry, or 0 for an unknown
	// entry.
	ShopPrice(ctx context.Context, entry string) int

	// Invalidate drops a cached table so the next lookup refetches.
	Invalidate(key string)
}

// cachedTable wraps a table with version metadata for cache invalidation
type cachedTable struct {
	Version   string
	Values    map[string]float64
	FetchedAt time.Time
}

type provider struct {
	client remote.Client
	cache  *expirable.LRU[string, *cachedTable]
}

// NewProvider creates a config provider backed by the ledger's config
// endpoint with an expiring LRU in front of it.
func NewProvider(client remote.Client, cacheSize int, ttl time.Duration) Provider {
	return &provider{
		client: client,
		cache:  expirable.NewLRU[string, *cachedTable](cacheSize, nil, ttl),
	}
}

func (p *provider) Table(ctx context.Context, key string) map[string]float64 {
	// Always hand out a copy; the cached map is shared across callers
	if entry, found := p.cache.Get(key); found && entry.Version == TableSchemaVersion {
		return copyTable(entry.Values)
	}

	values, err := p.client.GetNumericConfig(ctx, key)
	if err != nil || len(values) == 0 {
		log := logger.FromContext(ctx)
		log.Warn("Config fetch failed, using built-in defaults", "key", key, "error", err)
		// Defaults are not cached: the next lookup retries the ledger
		return DefaultTable(key)
	}

	p.cache.Add(key, &cachedTable{
		Version:   TableSchemaVersion,
		Values:    values,
		FetchedAt: time.Now(),
	})
	return copyTable(values)
}

func copyTable(values map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}

func (p *provider) XPValueFor(ctx context.Context, kind string) int {
	return int(p.Table(ctx, KeyXPItemValues)[kind])
}

func (p *provider) ShopPrice(ctx context.Context, entry string) int {
	return int(p.Table(ctx, KeyShopPrices)[entry])
}

func (p *provider) Invalidate(key string) {
	p.cache.Remove(key)
}
