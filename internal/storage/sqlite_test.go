package storage

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))

	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	doc := json.RawMessage(`{"duty_rate":"12%"}`)
	require.NoError(t, store.Set(ctx, "tariff:customs_tariff", "8471300000", doc))

	got, err := store.Get(ctx, "tariff:customs_tariff", "8471300000")
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(got))
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Get(context.Background(), "tariff:customs_tariff", "0000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrKeyNotFound))
}

func TestSQLiteStore_NamespaceIsolation(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	require.NoError(t, store.Set(ctx, "tariff:customs_tariff", "8471300000", json.RawMessage(`{"a":1}`)))
	require.NoError(t, store.Set(ctx, "tariff:tariff_archive", "8471300000", json.RawMessage(`{"a":2}`)))

	got, err := store.Get(ctx, "tariff:tariff_archive", "8471300000")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))
}

func TestSQLiteStore_Upsert(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	require.NoError(t, store.Set(ctx, "ns", "k", json.RawMessage(`{"v":1}`)))
	require.NoError(t, store.Set(ctx, "ns", "k", json.RawMessage(`{"v":2}`)))

	got, err := store.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))

	keys, err := store.Keys(ctx, "ns")
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSQLiteStore_DeleteNamespace(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	require.NoError(t, store.Set(ctx, "verification_cache", "a", json.RawMessage(`{}`)))
	require.NoError(t, store.Set(ctx, "verification_cache", "b", json.RawMessage(`{}`)))
	require.NoError(t, store.Set(ctx, "other", "c", json.RawMessage(`{}`)))

	removed, err := store.DeleteNamespace(ctx, "verification_cache")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = store.Get(ctx, "other", "c")
	assert.NoError(t, err)
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Set(ctx, "ns", "k", json.RawMessage(`{"v":1}`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "ns", "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got))
}

func TestKnowledge_RecordAndUseCount(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	result := model.VerificationResult{
		Code:     "8471300000",
		Chapter:  "84",
		Verified: true,
		Status:   model.StatusVerified,
	}

	require.NoError(t, store.Record(ctx, "8471300000", "laptop computer", result))
	count, err := store.KnowledgeUseCount(ctx, "8471300000", "laptop computer")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Same pair again: the counter increments, no second row.
	require.NoError(t, store.Record(ctx, "8471300000", "laptop computer", result))
	count, err = store.KnowledgeUseCount(ctx, "8471300000", "laptop computer")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Different description: its own counter.
	require.NoError(t, store.Record(ctx, "8471300000", "notebook pc", result))
	count, err = store.KnowledgeUseCount(ctx, "8471300000", "notebook pc")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestKnowledgeUseCount_Absent(t *testing.T) {
	store := createTestStore(t)

	count, err := store.KnowledgeUseCount(context.Background(), "0000000000", "nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDescriptionHash(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{name: "case insensitive", a: "Laptop Computer", b: "laptop computer", same: true},
		{name: "whitespace collapsed", a: "laptop   computer", b: "laptop computer", same: true},
		{name: "different text", a: "laptop computer", b: "desktop computer", same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescriptionHash(tt.a) == DescriptionHash(tt.b)
			assert.Equal(t, tt.same, got)
		})
	}

	assert.Len(t, DescriptionHash("anything"), 12)
}
