package cache

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
)

// MemoryStore is a thread-safe in-memory KVStore, used in tests and when no
// persistent backend is configured.
type MemoryStore struct {
	docs map[string]json.RawMessage
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]json.RawMessage)}
}

func memKey(namespace, key string) string {
	return namespace + ":" + key
}

// Get returns the stored document or common.ErrKeyNotFound.
func (s *MemoryStore) Get(_ context.Context, namespace, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[memKey(namespace, key)]
	if !ok {
		return nil, common.ErrKeyNotFound
	}
	return doc, nil
}

// Set stores a document, overwriting any existing one.
func (s *MemoryStore) Set(_ context.Context, namespace, key string, doc json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make(json.RawMessage, len(doc))
	copy(cp, doc)
	s.docs[memKey(namespace, key)] = cp
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
