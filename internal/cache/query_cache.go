package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/voltmap-kh/chargemap/backend-go/internal/config"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

type queryCacheEntry struct {
	Stations  []models.Station
	ExpiresAt time.Time
}

// QueryCache keeps ranked results keyed by reference point, filter and limit.
type QueryCache struct {
	lru    *lru.Cache[string, *queryCacheEntry]
	ttl    time.Duration
	clock  clock
	mu     sync.Mutex
	hits   uint64
	misses uint64
}

func NewQueryCache(cfg *config.CacheConfig) (*QueryCache, error) {
	lruCache, err := lru.New[string, *queryCacheEntry](cfg.QueryLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &QueryCache{
		lru:   lruCache,
		ttl:   cfg.GetQueryLRUTTL(),
		clock: systemClock{},
	}, nil
}

// QueryKey builds a cache key. Coordinates are rounded to about a metre and filter
// sets are order-insensitive.
func QueryKey(ref models.LatLng, filter models.Filter, limit int) string {
	connectors := append([]string(nil), filter.Connectors...)
	sort.Strings(connectors)

	operators := make([]string, len(filter.Operators))
	for i, o := range filter.Operators {
		operators[i] = string(o)
	}
	sort.Strings(operators)

	return fmt.Sprintf("%.5f:%.5f|%s|%s|%s|%d",
		ref.Lat, ref.Lng,
		strings.Join(connectors, ","),
		strings.Join(operators, ","),
		strings.ToLower(strings.TrimSpace(filter.Query)),
		limit,
	)
}

// Add stores a copy of stations. Get also returns a copy, so callers may modify results.
func (c *QueryCache) Add(_ context.Context, key string, stations []models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, &queryCacheEntry{
		Stations:  models.CloneStations(stations),
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

func (c *QueryCache) Get(_ context.Context, key string) ([]models.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		c.misses++
		return nil, false
	}

	if c.clock.Now().After(entry.ExpiresAt) {
		c.lru.Remove(key)
		c.misses++
		return nil, false
	}

	c.hits++
	return models.CloneStations(entry.Stations), true
}

// Stats returns hit and miss counters.
func (c *QueryCache) Stats() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]uint64{
		"lru_hits":   c.hits,
		"lru_misses": c.misses,
		"lru_size":   uint64(c.lru.Len()),
	}
}

func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}
