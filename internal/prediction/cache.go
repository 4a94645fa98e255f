package prediction

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/yourusername/soccer-predictor/internal/models"
)

// CacheKey identifies a prediction request.
type CacheKey struct {
	HomeTeam   string
	AwayTeam   string
	HomeLeague string
	AwayLeague string
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.HomeTeam, k.AwayTeam, k.HomeLeague, k.AwayLeague)
}

// Cache provides in-memory caching for match predictions so repeated
// requests for the same fixture are not recomputed.
type Cache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewCache creates a prediction cache with the given TTL and maximum
// entry count.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction, or nil on a miss.
func (c *Cache) Get(key CacheKey) *models.MatchPrediction {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, found := c.cache.Get(key.String()); found {
		if pred, ok := cached.(*models.MatchPrediction); ok {
			c.hitCount++
			return pred
		}
	}
	c.missCount++
	return nil
}

// Set stores a prediction.
func (c *Cache) Set(key CacheKey, pred *models.MatchPrediction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
	}
	c.cache.Set(key.String(), pred, c.ttl)
}

// Flush drops all cached predictions, e.g. after a ratings refresh.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Flush()
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hitCount, c.missCount
}
