package pricing

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/mswatii/cs2-craftcalc/internal/metrics"
)

// Invalidator is implemented by lookups that keep prices around
type Invalidator interface {
	Invalidate(marketHash string)
}

// CachedLookup remembers successful lookups for a while. Failures are never cached.
type CachedLookup struct {
	next  Lookup
	cache *expirable.LRU[string, float64]
}

// NewCachedLookup wraps next with a TTL cache. A non-positive ttl disables caching
// and returns next unchanged.
func NewCachedLookup(next Lookup, size int, ttl time.Duration) Lookup {
	if ttl <= 0 {
		return next
	}
	if size <= 0 {
		size = 256
	}
	return &CachedLookup{
		next:  next,
		cache: expirable.NewLRU[string, float64](size, nil, ttl),
	}
}

// LowestPrice serves from the cache when possible
func (c *CachedLookup) LowestPrice(ctx context.Context, marketHash string) (float64, error) {
	if price, ok := c.cache.Get(marketHash); ok {
		metrics.PriceLookupsTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		return price, nil
	}
	price, err := c.next.LowestPrice(ctx, marketHash)
	if err != nil {
		return 0, err
	}
	c.cache.Add(marketHash, price)
	return price, nil
}

// Invalidate drops a cached price so the next lookup goes upstream
func (c *CachedLookup) Invalidate(marketHash string) {
	c.cache.Remove(marketHash)
}
