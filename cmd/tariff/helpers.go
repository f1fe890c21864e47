package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cache"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/config"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/storage"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/verify"
)

// initStore opens the configured KV backend with migrations applied.
func initStore(ctx context.Context, cfg config.Config) (service.KVStore, error) {
	switch cfg.CacheBackend {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		store, err := cache.NewRedisStore(ctx, cfg.RedisAddr, "", cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store, nil
	case "", "sqlite":
		store, err := storage.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.CacheBackend)
	}
}

// initVerifier wires the full source cascade over the given store.
func initVerifier(cfg config.Config, store service.KVStore) *verify.Verifier {
	deps := verify.Deps{
		Cache:      cache.New(store, cfg.CacheTTL()),
		Tariff:     verify.NewKVTariffSource(store, nil),
		Decree:     verify.NewKVDecreeSource(store),
		Regulatory: verify.NewKVRegulatorySource(store),
	}
	if sqlStore, ok := store.(*storage.SQLiteStore); ok {
		deps.Knowledge = sqlStore
	}

	verifierCfg := verify.DefaultConfig()
	verifierCfg.VATRate = cfg.VATRate
	return verify.NewWithConfig(deps, verifierCfg)
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// candidateInput is the wire form of a candidate in a batch file. The
// upstream classifier emits confidence as a number or a label, so the
// field stays raw until ParseConfidence normalizes it.
type candidateInput struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	DutyRate    string `json:"duty_rate"`
	Confidence  any    `json:"confidence"`
}

// loadCandidates reads a JSON array of candidates from a file.
func loadCandidates(path string) ([]model.Candidate, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied batch file
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates file: %w", err)
	}

	var inputs []candidateInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse candidates file: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(inputs))
	for i, in := range inputs {
		c := model.Candidate{
			Code:        strings.TrimSpace(in.Code),
			Description: in.Description,
			DutyRate:    in.DutyRate,
			Confidence:  model.ParseConfidence(in.Confidence),
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i+1, err)
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
