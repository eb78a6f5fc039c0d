// Package cache provides a Redis-backed cache for resolved answers. The
// resolver is deterministic, so caching is purely a latency/throughput
// optimisation and must never change an observable result.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/aerovia-labs/faq-service/internal/resolver"
	"github.com/aerovia-labs/faq-service/pkg/config"
	"github.com/aerovia-labs/faq-service/pkg/logger"
	pkgredis "github.com/aerovia-labs/faq-service/pkg/redis"
)

const keyPrefix = "chat:"

// kv is the slice of the Redis client surface the cache depends on.
type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// AnswerCache caches resolver responses keyed by the normalised question.
// Concurrent misses for the same question are collapsed with singleflight so
// the resolver runs once.
type AnswerCache struct {
	client kv
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates an AnswerCache on top of the given Redis client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *AnswerCache {
	return &AnswerCache{
		client: client,
		cfg:    cfg,
		logger: logger.WithComponent("answer-cache"),
	}
}

// Get returns the cached response for the question, if present, and counts
// the outcome toward the hit/miss stats.
func (c *AnswerCache) Get(ctx context.Context, question string) (resolver.Response, bool) {
	resp, ok := c.lookup(ctx, question)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return resp, ok
}

// lookup fetches and decodes a cached response without touching the
// counters. GetOrCompute re-checks the cache inside the singleflight group
// through this path so a question is counted exactly once per request.
func (c *AnswerCache) lookup(ctx context.Context, question string) (resolver.Response, bool) {
	key := c.buildKey(question)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		return resolver.Response{}, false
	}
	var resp resolver.Response
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		return resolver.Response{}, false
	}
	c.logger.Debug("cache hit", "question", question, "key", key)
	return resp, true
}

// Set stores a response with the configured TTL.
func (c *AnswerCache) Set(ctx context.Context, question string, resp resolver.Response) {
	key := c.buildKey(question)
	data, err := json.Marshal(resp)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached response or computes, caches, and returns
// it. The second return value reports whether the response came from cache.
func (c *AnswerCache) GetOrCompute(
	ctx context.Context,
	question string,
	computeFn func() (resolver.Response, error),
) (resolver.Response, bool, error) {
	if resp, ok := c.Get(ctx, question); ok {
		return resp, true, nil
	}
	key := c.buildKey(question)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if resp, ok := c.lookup(ctx, question); ok {
			return resp, nil
		}
		resp, err := computeFn()
		if err != nil {
			return resolver.Response{}, err
		}
		c.Set(ctx, question, resp)
		return resp, nil
	})
	if err != nil {
		return resolver.Response{}, false, err
	}
	return val.(resolver.Response), false, nil
}

// Invalidate removes every cached answer, e.g. after a catalogue change on
// restart.
func (c *AnswerCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating answer cache: %w", err)
	}
	c.logger.Info("answer cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *AnswerCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *AnswerCache) buildKey(question string) string {
	hash := sha256.Sum256([]byte(normalizeQuestion(question)))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeQuestion collapses case and whitespace so trivially different
// phrasings share a cache slot. Scoring is case-insensitive, so responses
// for two questions with the same normal form are identical.
func normalizeQuestion(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}
