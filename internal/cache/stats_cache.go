package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RiskStats are the assessment-list summary counts bucketed by the 3-level
// risk scheme
type RiskStats struct {
	Total     int       `json:"total"`
	Low       int       `json:"low"`
	Medium    int       `json:"medium"`
	High      int       `json:"high"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StatsCache keeps the admin dashboard summary in Redis; recomputed from the
// evaluations collection when the cache is cold or after a submission
type StatsCache interface {
	Get(ctx context.Context) (*RiskStats, error)
	Set(ctx context.Context, stats *RiskStats) error
	Invalidate(ctx context.Context) error
}

type statsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
		ttl:    5 * time.Minute,
	}
}

func (c *statsCache) key() string {
	return "assessments:stats"
}

func (c *statsCache) Get(ctx context.Context) (*RiskStats, error) {
	data, err := c.client.Get(ctx, c.key()).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stats RiskStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *statsCache) Set(ctx context.Context, stats *RiskStats) error {
	stats.UpdatedAt = time.Now()
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(), data, c.ttl).Err()
}

func (c *statsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key()).Err()
}
