package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/iho/fundengine/internal/domain"
)

// MetricsCache implements usecase.MetricsCache. Entries are msgpack-encoded
// FundMetrics keyed by fund ID.
type MetricsCache struct {
	client *redis.Client
	prefix string
}

// NewMetricsCache creates a new MetricsCache.
func NewMetricsCache(client *redis.Client) *MetricsCache {
	return &MetricsCache{
		client: client,
		prefix: "fund_metrics:",
	}
}

// Get returns the cached metrics, or nil, nil on a miss.
func (c *MetricsCache) Get(ctx context.Context, fundID string) (*domain.FundMetrics, error) {
	raw, err := c.client.Get(ctx, c.prefix+fundID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m domain.FundMetrics
	if err := msgpack.Unmarshal(raw, &m); err != nil {
		// An undecodable entry is treated as a miss and dropped.
		_ = c.client.Del(ctx, c.prefix+fundID).Err()
		return nil, nil
	}

	return &m, nil
}

// Set stores metrics with TTL.
func (c *MetricsCache) Set(ctx context.Context, m *domain.FundMetrics, ttl time.Duration) error {
	raw, err := msgpack.Marshal(m)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+m.FundID, raw, ttl).Err()
}

// Invalidate drops a fund's cached metrics.
func (c *MetricsCache) Invalidate(ctx context.Context, fundID string) error {
	return c.client.Del(ctx, c.prefix+fundID).Err()
}
