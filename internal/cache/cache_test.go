package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

func testResult(code string) model.VerificationResult {
	return model.VerificationResult{
		Code:     code,
		Chapter:  code[:2],
		Verified: true,
		Status:   model.StatusVerified,
		Sources:  []string{"customs_tariff"},
		DutyRate: "12%",
		VATRate:  18,
	}
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), DefaultTTL)

	require.NoError(t, c.Put(ctx, "8471300000", testResult("8471300000")))

	got, err := c.Get(ctx, "8471300000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "8471300000", got.Code)
	assert.Equal(t, model.StatusVerified, got.Status)
	assert.True(t, got.FromCache)
	assert.Equal(t, 0, got.CacheAgeDays)
}

func TestCache_StampsCachedAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, DefaultTTL)

	base := time.Now().Truncate(time.Second)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, "8471300000", testResult("8471300000")))

	// The persisted payload carries the write-through timestamp.
	raw, err := store.Get(ctx, Namespace, "8471300000")
	require.NoError(t, err)
	var persisted struct {
		Result model.VerificationResult `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.True(t, persisted.Result.CachedAt.Equal(base), "persisted cached_at = %v, want %v", persisted.Result.CachedAt, base)

	got, err := c.Get(ctx, "8471300000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CachedAt.Equal(base), "CachedAt = %v, want %v", got.CachedAt, base)
}

func TestCache_MissReturnsNil(t *testing.T) {
	c := New(NewMemoryStore(), DefaultTTL)

	got, err := c.Get(context.Background(), "0000000000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), DefaultTTL)

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Put(ctx, "8471300000", testResult("8471300000")))

	// 29 days later: still fresh, annotated with its age.
	c.now = func() time.Time { return base.Add(29 * 24 * time.Hour) }
	got, err := c.Get(ctx, "8471300000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 29, got.CacheAgeDays)

	// 31 days later: stale, treated as a miss.
	c.now = func() time.Time { return base.Add(31 * 24 * time.Hour) }
	got, err = c.Get(ctx, "8471300000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, DefaultTTL)

	require.NoError(t, store.Set(ctx, Namespace, "8471300000", json.RawMessage(`{not json`)))

	got, err := c.Get(ctx, "8471300000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_MissingTimestampIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(store, DefaultTTL)

	require.NoError(t, store.Set(ctx, Namespace, "8471300000", json.RawMessage(`{"payload":{"code":"8471300000"}}`)))

	got, err := c.Get(ctx, "8471300000")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_OverwriteWins(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), DefaultTTL)

	first := testResult("8471300000")
	first.DutyRate = "6%"
	require.NoError(t, c.Put(ctx, "8471300000", first))

	second := testResult("8471300000")
	second.DutyRate = "12%"
	require.NoError(t, c.Put(ctx, "8471300000", second))

	got, err := c.Get(ctx, "8471300000")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12%", got.DutyRate)
}

func TestCache_NegativeOutcomeCached(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), DefaultTTL)

	miss := model.VerificationResult{
		Code:    "9999999999",
		Chapter: "99",
		Status:  model.StatusUnverified,
	}
	require.NoError(t, c.Put(ctx, "9999999999", miss))

	got, err := c.Get(ctx, "9999999999")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.StatusUnverified, got.Status)
	assert.False(t, got.Verified)
}

func TestMemoryStore_CopiesDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	doc := json.RawMessage(`{"a":1}`)
	require.NoError(t, store.Set(ctx, "ns", "k", doc))
	doc[1] = 'x'

	got, err := store.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}
