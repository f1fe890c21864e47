// Package verify implements the source verification cascade: cache, tariff
// reference collections, and the free-import-order decree source.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/reference"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// Namespaces holding the seeded reference documents.
const (
	TariffNamespacePrefix = "tariff:"
	DecreeNamespace       = "free_import_order"
	RegulatoryNamespace   = "regulatory_routing"
)

// KVTariffSource serves tariff reference collections out of the KV store.
// Each collection is a namespace "tariff:<name>" keyed by normalized code.
type KVTariffSource struct {
	store       service.KVStore
	collections []string
}

// NewKVTariffSource creates a tariff source over the given store. An empty
// collections list falls back to the default cascade order.
func NewKVTariffSource(store service.KVStore, collections []string) *KVTariffSource {
	if len(collections) == 0 {
		collections = reference.DefaultCollections()
	}
	return &KVTariffSource{store: store, collections: collections}
}

// Collections returns collection names, most authoritative first.
func (s *KVTariffSource) Collections() []string {
	return s.collections
}

// Lookup returns the collection's record for a code, or (nil, nil) when the
// collection has no such record.
func (s *KVTariffSource) Lookup(ctx context.Context, collection, code string) (*service.TariffRecord, error) {
	raw, err := s.store.Get(ctx, TariffNamespacePrefix+collection, code)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, common.NewSourceError(collection, err)
	}

	var rec service.TariffRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, common.NewSourceError(collection, fmt.Errorf("unreadable record for %s: %w", code, err))
	}
	return &rec, nil
}

// KVDecreeSource serves free-import-order lookups out of the KV store,
// keyed by 2-digit chapter so prefix matching happens in the verifier.
type KVDecreeSource struct {
	store service.KVStore
}

// NewKVDecreeSource creates a decree source over the given store.
func NewKVDecreeSource(store service.KVStore) *KVDecreeSource {
	return &KVDecreeSource{store: store}
}

// Lookup returns the decree entries relevant to a code's chapter. Absent
// chapters produce a not-found result, not an error.
func (s *KVDecreeSource) Lookup(ctx context.Context, code string) (*service.DecreeResult, error) {
	chapter := code
	if len(chapter) > 2 {
		chapter = chapter[:2]
	}

	raw, err := s.store.Get(ctx, DecreeNamespace, chapter)
	if err != nil {
		if errors.Is(err, common.ErrKeyNotFound) {
			return &service.DecreeResult{Found: false}, nil
		}
		return nil, common.NewSourceError(reference.SourceFreeImportOrder, err)
	}

	var res service.DecreeResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, common.NewSourceError(reference.SourceFreeImportOrder, fmt.Errorf("unreadable decree entry for chapter %s: %w", chapter, err))
	}
	return &res, nil
}

// KVRegulatorySource serves ministry-routing lookups out of the KV store,
// keyed by 4-digit heading with a 2-digit chapter fallback.
type KVRegulatorySource struct {
	store service.KVStore
}

// NewKVRegulatorySource creates a regulatory routing source over the given store.
func NewKVRegulatorySource(store service.KVStore) *KVRegulatorySource {
	return &KVRegulatorySource{store: store}
}

// Lookup returns the routing info for a code, or (nil, nil) when no routing
// is on file for its heading or chapter.
func (s *KVRegulatorySource) Lookup(ctx context.Context, code string) (*service.RegulatoryInfo, error) {
	keys := make([]string, 0, 2)
	if len(code) >= 4 {
		keys = append(keys, code[:4])
	}
	if len(code) >= 2 {
		keys = append(keys, code[:2])
	}

	for _, key := range keys {
		raw, err := s.store.Get(ctx, RegulatoryNamespace, key)
		if errors.Is(err, common.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, common.NewSourceError("regulatory_routing", err)
		}

		var info service.RegulatoryInfo
		if err := json.Unmarshal(raw, &info); err != nil {
			return nil, common.NewSourceError("regulatory_routing", fmt.Errorf("unreadable routing for %s: %w", key, err))
		}
		return &info, nil
	}

	return nil, nil
}
