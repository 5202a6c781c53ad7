package availability

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/twisthair/booking-api/internal/observability/metrics"
	"github.com/twisthair/booking-api/pkg/logging"
)

const cacheKey = "availability:dates"

// Cache holds the reconciled availability listing in Redis for a short TTL.
// Writes to either store invalidate it. A nil Redis client disables caching
// entirely so callers never branch.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// NewCache creates a cache. client may be nil.
func NewCache(client *redis.Client, ttl time.Duration, m *metrics.BookingMetrics, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{client: client, ttl: ttl, metrics: m, logger: logger}
}

// Get returns the cached listing, or false on miss or any Redis error.
func (c *Cache) Get(ctx context.Context) ([]DateEntry, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.metrics.ObserveCacheLookup("miss")
		return nil, false
	}
	if err != nil {
		c.metrics.ObserveCacheLookup("error")
		c.logger.Warn("availability cache read failed", "error", err)
		return nil, false
	}

	var entries []DateEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.metrics.ObserveCacheLookup("error")
		c.logger.Warn("availability cache entry corrupt, dropping", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	c.metrics.ObserveCacheLookup("hit")
	return entries, true
}

// Set stores the listing. Failures are logged, never surfaced.
func (c *Cache) Set(ctx context.Context, entries []DateEntry) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("availability cache marshal failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", "error", err)
	}
}

// Invalidate drops the cached listing after any booking or override change.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Warn("availability cache invalidate failed", "error", err)
	}
}
