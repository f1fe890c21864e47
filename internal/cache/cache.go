// Package cache implements the TTL-keyed verification cache on top of the
// KVStore abstraction, plus in-memory and redis-backed stores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// Namespace is the KV namespace holding cached verification results.
const Namespace = "verification_cache"

// DefaultTTL is how long a cached verification result stays usable.
const DefaultTTL = 30 * 24 * time.Hour

// entry is the persisted form of a cache record.
type entry struct {
	Result   model.VerificationResult `json:"payload"`
	CachedAt time.Time                `json:"cached_at"`
}

// VerificationCache serves verification results with read-time staleness:
// entries older than the TTL are treated as absent, not evicted.
type VerificationCache struct {
	store service.KVStore
	now   func() time.Time
	ttl   time.Duration
}

// New creates a verification cache over the given store.
func New(store service.KVStore, ttl time.Duration) *VerificationCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &VerificationCache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached result for a normalized code, or nil when absent.
// A stale, unreadable, or unparsable record is a miss, never an error:
// corruption degrades to re-verification.
func (c *VerificationCache) Get(ctx context.Context, code string) (*model.VerificationResult, error) {
	raw, err := c.store.Get(ctx, Namespace, code)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return nil, nil
		}
		slog.Warn("Cache read failed, treating as miss", "code", code, "error", err)
		return nil, nil
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		slog.Warn("Cache entry unparsable, treating as miss", "code", code, "error", err)
		return nil, nil
	}
	if e.CachedAt.IsZero() {
		return nil, nil
	}

	age := c.now().Sub(e.CachedAt)
	if age > c.ttl {
		return nil, nil
	}

	result := e.Result
	result.FromCache = true
	result.CachedAt = e.CachedAt
	result.CacheAgeDays = int(age.Hours() / 24)
	return &result, nil
}

// Put stores a verification result stamped with the current time. Existing
// entries are overwritten whole; last write wins.
func (c *VerificationCache) Put(ctx context.Context, code string, result model.VerificationResult) error {
	result.FromCache = false
	result.CachedAt = c.now()
	e := entry{Result: result, CachedAt: result.CachedAt}

	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.store.Set(ctx, Namespace, code, raw); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
