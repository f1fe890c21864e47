// Package testutil provides shared helpers for seeding reference data in
// tests.
package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/storage"
)

// SetupTestStore creates an in-memory sqlite store with migrations applied.
// Cleanup is registered automatically.
func SetupTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedJSON marshals v and stores it under namespace/key.
func SeedJSON(t *testing.T, store service.KVStore, namespace, key string, v any) {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode seed %s/%s: %v", namespace, key, err)
	}
	if err := store.Set(context.Background(), namespace, key, raw); err != nil {
		t.Fatalf("failed to seed %s/%s: %v", namespace, key, err)
	}
}
