// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

// KVStore is the persistence contract: namespaced JSON documents keyed by
// string. Implementations must return ErrKeyNotFound (wrapped or direct)
// for absent keys so callers can distinguish a miss from a failure.
type KVStore interface {
	Get(ctx context.Context, namespace, key string) (json.RawMessage, error)
	Set(ctx context.Context, namespace, key string, doc json.RawMessage) error
	Close() error
}

// TariffRecord is one hit from a tariff reference collection.
type TariffRecord struct {
	DescriptionHe string `json:"description_he"`
	DescriptionEn string `json:"description_en"`
	DutyRate      string `json:"duty_rate"`
	ExactMatch    bool   `json:"exact_match"`
}

// TariffSource serves the official tariff reference collections. Collections
// returns their names in priority order, most authoritative first. Lookup
// returns (nil, nil) when the collection has no record for the code.
type TariffSource interface {
	Collections() []string
	Lookup(ctx context.Context, collection, code string) (*TariffRecord, error)
}

// DecreeItem is one entry from the free-import-order decree list.
type DecreeItem struct {
	HSCode       string   `json:"hs_code"`
	Description  string   `json:"description"`
	Requirements []string `json:"legal_requirements"`
}

// DecreeResult is the decree source's answer for a code.
type DecreeResult struct {
	Found bool         `json:"found"`
	Items []DecreeItem `json:"items"`
}

// DecreeSource serves legal-requirement lookups from the free import order.
type DecreeSource interface {
	Lookup(ctx context.Context, code string) (*DecreeResult, error)
}

// RegulatoryInfo is the ministry routing and risk level for a code.
type RegulatoryInfo struct {
	Ministries []string `json:"ministries"`
	RiskLevel  string   `json:"risk_level"`
}

// RegulatorySource serves ministry-routing lookups keyed by code.
type RegulatorySource interface {
	Lookup(ctx context.Context, code string) (*RegulatoryInfo, error)
}

// VerificationCache stores previously computed verification results.
// Get returns nil for absent or stale entries; it never returns a record
// older than the cache's TTL.
type VerificationCache interface {
	Get(ctx context.Context, code string) (*model.VerificationResult, error)
	Put(ctx context.Context, code string, result model.VerificationResult) error
}

// KnowledgeStore records verified classifications for later reuse by the
// learning pipeline. Record is an idempotent upsert keyed by code plus a
// hash of the description; repeats increment a usage counter.
type KnowledgeStore interface {
	Record(ctx context.Context, code, description string, result model.VerificationResult) error
}

// Verifier runs candidate codes through the source cascade.
type Verifier interface {
	Verify(ctx context.Context, code string, decree *DecreeResult) model.VerificationResult
	VerifyAll(ctx context.Context, candidates []model.Candidate) []model.Candidate
}

// RetryOptions configures retry behavior for external source operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
