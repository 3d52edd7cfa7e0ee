package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fintrackd/fintrack_app/internal/core/domain"
	"github.com/fintrackd/fintrack_app/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "fintrack:totals:"

// RedisTotalsCache stores aggregated book totals in Redis as JSON blobs
// keyed by book and display currency. It is a pure accelerator: every miss
// or Redis error is survivable and aggregation recomputes from Postgres.
type RedisTotalsCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.TotalsCache = (*RedisTotalsCache)(nil)

// NewRedisTotalsCache creates a totals cache from a Redis connection URL.
func NewRedisTotalsCache(redisURL string, ttl time.Duration) (*RedisTotalsCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisTotalsCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Ping verifies connectivity at startup.
func (c *RedisTotalsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(bookID, currency string) string {
	return keyPrefix + bookID + ":" + currency
}

// Get returns the cached totals for the book/currency pair, reporting a miss
// for absent keys.
func (c *RedisTotalsCache) Get(ctx context.Context, bookID, currency string) (*domain.BookTotals, bool, error) {
	raw, err := c.client.Get(ctx, key(bookID, currency)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var totals domain.BookTotals
	if err := json.Unmarshal(raw, &totals); err != nil {
		// A corrupt value is a miss; the next Set overwrites it.
		return nil, false, nil
	}
	return &totals, true, nil
}

// Set stores the totals under its book/currency key with the configured TTL.
func (c *RedisTotalsCache) Set(ctx context.Context, totals domain.BookTotals) error {
	raw, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}
	if err := c.client.Set(ctx, key(totals.BookID, totals.CurrencyCode), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops all cached totals for the given books, across every
// display currency they were cached under.
func (c *RedisTotalsCache) Invalidate(ctx context.Context, bookIDs ...string) error {
	for _, bookID := range bookIDs {
		if err := c.deleteByPattern(ctx, keyPrefix+bookID+":*"); err != nil {
			return err
		}
	}
	return nil
}

// Clear drops every cached total. Used when the default currency changes.
func (c *RedisTotalsCache) Clear(ctx context.Context) error {
	return c.deleteByPattern(ctx, keyPrefix+"*")
}

func (c *RedisTotalsCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
