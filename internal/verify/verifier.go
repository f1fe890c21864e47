package verify

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/reference"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/tax"
)

// Deps holds the verifier's collaborators. Cache and Tariff are required;
// the rest are optional and simply skipped when nil.
type Deps struct {
	Cache      service.VerificationCache
	Tariff     service.TariffSource
	Decree     service.DecreeSource
	Regulatory service.RegulatorySource
	Knowledge  service.KnowledgeStore
}

// Config holds configuration options for the verifier.
type Config struct {
	VATRate float64
	Retry   service.RetryOptions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		VATRate: reference.DefaultVATRate,
		Retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 200 * time.Millisecond,
		},
	}
}

// Verifier cascades a code through cache, tariff reference collections and
// the decree source. Every public operation returns a best-effort,
// well-formed result; there are no fatal error paths.
type Verifier struct {
	deps    Deps
	vatRate float64
	retry   service.RetryOptions
	now     func() time.Time
}

// New creates a verifier with default configuration.
func New(deps Deps) *Verifier {
	return NewWithConfig(deps, DefaultConfig())
}

// NewWithConfig creates a verifier with custom configuration.
func NewWithConfig(deps Deps, cfg Config) *Verifier {
	if cfg.VATRate <= 0 {
		cfg.VATRate = reference.DefaultVATRate
	}
	return &Verifier{
		deps:    deps,
		vatRate: cfg.VATRate,
		retry:   cfg.Retry,
		now:     time.Now,
	}
}

// Verify runs one code through the cascade. A non-nil decree result, when
// supplied by the caller, replaces the verifier's own decree lookup.
//
// On a cache hit the cached result is returned annotated with its age and
// no source queries are issued. On a miss the tariff collections are tried
// in priority order with a per-collection fallback ladder (flat code,
// dotted code, heading), the decree source is merged in, taxes are
// populated, and the result is written back through the cache.
func (v *Verifier) Verify(ctx context.Context, code string, decree *service.DecreeResult) model.VerificationResult {
	n := model.NormalizeCode(code)

	if cached := v.cacheLookup(ctx, n.Full); cached != nil {
		return *cached
	}

	result := model.VerificationResult{
		Code:    n.Full,
		Chapter: n.Chapter,
		Status:  model.StatusUnverified,
		VATRate: v.vatRate,
	}

	refHit := v.queryTariff(ctx, n, &result)

	if decree == nil && v.deps.Decree != nil {
		decree = v.queryDecree(ctx, n.Full)
	}
	decreeHit := v.applyDecree(decree, n.Full, &result)

	switch {
	case refHit && decreeHit:
		result.Status = model.StatusOfficial
	case refHit || decreeHit:
		result.Status = model.StatusVerified
	default:
		result.Status = model.StatusUnverified
	}
	result.Verified = result.Status.Rank() >= model.StatusVerified.Rank()

	result.PurchaseTax = tax.PurchaseTax(n.Chapter, n.Heading)

	// Write-through, including negative outcomes. A failed write never
	// fails the verification call.
	if err := v.deps.Cache.Put(ctx, n.Full, result); err != nil {
		slog.Warn("Cache write failed", "code", n.Full, "error", err)
	}

	return result
}

// Routing collects ministry routing per code, best-effort. Codes whose
// lookup fails or yields nothing are absent from the map.
func (v *Verifier) Routing(ctx context.Context, codes []string) map[string]service.RegulatoryInfo {
	routing := make(map[string]service.RegulatoryInfo)
	if v.deps.Regulatory == nil {
		return routing
	}

	for _, code := range codes {
		n := model.NormalizeCode(code)
		if _, ok := routing[n.Full]; ok {
			continue
		}
		info, err := v.deps.Regulatory.Lookup(ctx, n.Full)
		if err != nil {
			slog.Warn("Regulatory lookup failed, omitting", "code", n.Full, "error", err)
			continue
		}
		if info != nil {
			routing[n.Full] = *info
		}
	}
	return routing
}

func (v *Verifier) cacheLookup(ctx context.Context, code string) *model.VerificationResult {
	cached, err := v.deps.Cache.Get(ctx, code)
	if err != nil {
		// Contract says Get degrades to a miss, but guard anyway.
		slog.Warn("Cache lookup failed, treating as miss", "code", code, "error", err)
		return nil
	}
	return cached
}

// queryTariff walks the collections most-authoritative-first, trying the
// flat code, the dotted variant, then the 4-digit heading. The first hit
// wins across the whole cascade. Reports whether any collection hit.
func (v *Verifier) queryTariff(ctx context.Context, n model.NormalizedCode, result *model.VerificationResult) bool {
	for _, collection := range v.deps.Tariff.Collections() {
		rec, exact := v.ladder(ctx, collection, n)
		if rec == nil {
			continue
		}

		result.Sources = append(result.Sources, collection)
		result.ExactMatch = exact && rec.ExactMatch
		result.DutyRate = rec.DutyRate
		result.DutySource = collection
		result.OfficialDescription = officialDescription(rec)
		return true
	}
	return false
}

// ladder tries the lookup variants for one collection in order. A failure
// to reach the collection omits it from the cascade entirely.
func (v *Verifier) ladder(ctx context.Context, collection string, n model.NormalizedCode) (*service.TariffRecord, bool) {
	variants := []struct {
		code  string
		exact bool
	}{
		{n.Full, true},
		{n.Dotted(), true},
		{n.Heading, false},
	}

	seen := make(map[string]bool, len(variants))
	for _, variant := range variants {
		if variant.code == "" || seen[variant.code] {
			continue
		}
		seen[variant.code] = true

		var rec *service.TariffRecord
		err := common.WithRetry(ctx, func() error {
			var lookupErr error
			rec, lookupErr = v.deps.Tariff.Lookup(ctx, collection, variant.code)
			return lookupErr
		}, v.retry)
		if err != nil {
			slog.Warn("Tariff collection unavailable, omitting",
				"collection", collection,
				"code", variant.code,
				"error", common.NewSourceError(collection, err))
			return nil, false
		}
		if rec != nil {
			if !variant.exact {
				rec.ExactMatch = false
			}
			return rec, variant.exact
		}
	}
	return nil, false
}

func (v *Verifier) queryDecree(ctx context.Context, code string) *service.DecreeResult {
	var res *service.DecreeResult
	err := common.WithRetry(ctx, func() error {
		var lookupErr error
		res, lookupErr = v.deps.Decree.Lookup(ctx, code)
		return lookupErr
	}, v.retry)
	if err != nil {
		slog.Warn("Decree source unavailable, omitting", "code", code, "error", err)
		return nil
	}
	return res
}

// applyDecree merges the decree outcome into the result: legal requirements
// from every item whose HS prefix matches the candidate code, and the
// decree source name. Reports whether the decree found the code.
func (v *Verifier) applyDecree(decree *service.DecreeResult, code string, result *model.VerificationResult) bool {
	if decree == nil || !decree.Found {
		return false
	}

	result.Sources = append(result.Sources, reference.SourceFreeImportOrder)

	seen := make(map[string]bool)
	for _, item := range decree.Items {
		if !prefixMatch(code, item.HSCode) {
			continue
		}
		for _, req := range item.Requirements {
			if req == "" || seen[req] {
				continue
			}
			seen[req] = true
			result.Requirements = append(result.Requirements, req)
		}
	}
	return true
}

// prefixMatch reports whether the candidate code falls under a decree
// item's code: the candidate starts with the item's digits after trailing
// zeros are stripped.
func prefixMatch(candidate, itemCode string) bool {
	item := model.NormalizeCode(itemCode).Full
	item = strings.TrimRight(item, "0")
	if item == "" {
		return false
	}
	return strings.HasPrefix(candidate, item)
}

func officialDescription(rec *service.TariffRecord) string {
	if rec.DescriptionHe != "" {
		return rec.DescriptionHe
	}
	return rec.DescriptionEn
}
