package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ratesync/internal/adapters"
	"ratesync/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// CachingRateClient decorates a RateClient with a short-TTL quote
// cache. Within the TTL a refresh commits the cached quote, including
// its original conversion date.
type CachingRateClient struct {
	next  adapters.RateClient
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewCachingRateClient(next adapters.RateClient, maxItems int64, ttl time.Duration) (*CachingRateClient, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote cache failed: %w", err)
	}
	return &CachingRateClient{next: next, cache: c, ttl: ttl}, nil
}

func (c *CachingRateClient) GetConversionRate(ctx context.Context, quote string, base string, includeUSD bool) (domain.RateQuote, error) {
	key := toKey(quote, base, includeUSD)
	if v, ok := c.cache.Get(key); ok {
		if q, ok := v.(domain.RateQuote); ok {
			return q, nil
		}
	}

	q, err := c.next.GetConversionRate(ctx, quote, base, includeUSD)
	if err != nil {
		return domain.RateQuote{}, err
	}
	c.cache.SetWithTTL(key, q, 1, c.ttl)
	return q, nil
}

// Wait flushes pending cache writes. Tests only.
func (c *CachingRateClient) Wait() { c.cache.Wait() }

func (c *CachingRateClient) Close() { c.cache.Close() }

func toKey(quote, base string, includeUSD bool) string {
	return quote + ":" + base + ":" + strconv.FormatBool(includeUSD)
}
