package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"homesearch/internal/model"
	"homesearch/internal/predicate"

	"github.com/go-redis/redis/v8"
)

const cachePrefix = "homesearch:search:"

// RedisOptions configures the result cache connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// ResultCache stores result pages in Redis keyed by predicate structure and
// page window, so differently worded queries that translate to the same
// predicate share an entry.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResultCache connects to Redis and checks it answers.
func NewResultCache(ctx context.Context, opts RedisOptions) (*ResultCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewResultCacheFromClient(rdb, opts.TTL), nil
}

// NewResultCacheFromClient wraps an existing client.
func NewResultCacheFromClient(rdb *redis.Client, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// CacheKey derives the Redis key for one page of results.
func CacheKey(cond predicate.Condition, offset, limit int) string {
	h := sha256.New()
	h.Write([]byte(cond.Key()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(offset)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(limit)))
	return cachePrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached page, or ok=false on a miss.
func (c *ResultCache) Get(ctx context.Context, cond predicate.Condition, offset, limit int) (*model.ResultPage, bool, error) {
	data, err := c.rdb.Get(ctx, CacheKey(cond, offset, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var page model.ResultPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached page: %w", err)
	}
	return &page, true, nil
}

// Set stores a page for the configured TTL.
func (c *ResultCache) Set(ctx context.Context, cond predicate.Condition, offset, limit int, page *model.ResultPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	if err := c.rdb.Set(ctx, CacheKey(cond, offset, limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached page. Called after listings change.
func (c *ResultCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, cachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	pipeline := c.rdb.Pipeline()
	defer pipeline.Close()
	for _, key := range keys {
		pipeline.Del(ctx, key)
	}
	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *ResultCache) Close() error {
	return c.rdb.Close()
}
