package verify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cache"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/reference"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// fakeTariff serves canned records keyed "collection/code" and counts every
// lookup.
type fakeTariff struct {
	collections []string
	records     map[string]service.TariffRecord
	failing     map[string]error
	failOnce    map[string]error
	calls       int
}

func newFakeTariff() *fakeTariff {
	return &fakeTariff{
		collections: reference.DefaultCollections(),
		records:     make(map[string]service.TariffRecord),
		failing:     make(map[string]error),
		failOnce:    make(map[string]error),
	}
}

func (f *fakeTariff) Collections() []string { return f.collections }

func (f *fakeTariff) Lookup(_ context.Context, collection, code string) (*service.TariffRecord, error) {
	f.calls++
	if err, ok := f.failOnce[collection]; ok {
		delete(f.failOnce, collection)
		return nil, err
	}
	if err, ok := f.failing[collection]; ok {
		return nil, err
	}
	if rec, ok := f.records[collection+"/"+code]; ok {
		return &rec, nil
	}
	return nil, nil
}

type fakeDecree struct {
	results map[string]*service.DecreeResult
	err     error
	calls   int
}

func (f *fakeDecree) Lookup(_ context.Context, code string) (*service.DecreeResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if res, ok := f.results[code]; ok {
		return res, nil
	}
	return &service.DecreeResult{Found: false}, nil
}

type fakeRegulatory struct {
	routes map[string]service.RegulatoryInfo
}

func (f *fakeRegulatory) Lookup(_ context.Context, code string) (*service.RegulatoryInfo, error) {
	if info, ok := f.routes[code]; ok {
		return &info, nil
	}
	return nil, nil
}

type recordedKnowledge struct {
	code        string
	description string
}

type fakeKnowledge struct {
	recorded []recordedKnowledge
}

func (f *fakeKnowledge) Record(_ context.Context, code, description string, _ model.VerificationResult) error {
	f.recorded = append(f.recorded, recordedKnowledge{code: code, description: description})
	return nil
}

func fastConfig() Config {
	return Config{
		VATRate: 18,
		Retry:   service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond},
	}
}

func newTestVerifier(tariff *fakeTariff, decree *fakeDecree) (*Verifier, *cache.MemoryStore) {
	store := cache.NewMemoryStore()
	deps := Deps{
		Cache:  cache.New(store, cache.DefaultTTL),
		Tariff: tariff,
	}
	if decree != nil {
		deps.Decree = decree
	}
	return NewWithConfig(deps, fastConfig()), store
}

func TestVerify_ExactHitIsVerified(t *testing.T) {
	tariff := newFakeTariff()
	tariff.records["customs_tariff/8471300000"] = service.TariffRecord{
		DescriptionHe: "מחשבים ניידים",
		DescriptionEn: "portable computers",
		DutyRate:      "0%",
		ExactMatch:    true,
	}
	v, _ := newTestVerifier(tariff, nil)

	result := v.Verify(context.Background(), "8471.30.0000", nil)

	if result.Status != model.StatusVerified {
		t.Errorf("Status = %s, want %s", result.Status, model.StatusVerified)
	}
	if !result.Verified {
		t.Error("Verified should be true")
	}
	if !result.ExactMatch {
		t.Error("ExactMatch should be true for a flat-code hit")
	}
	if result.DutySource != "customs_tariff" {
		t.Errorf("DutySource = %s", result.DutySource)
	}
	if result.OfficialDescription != "מחשבים ניידים" {
		t.Errorf("OfficialDescription = %q, want the Hebrew text preferred", result.OfficialDescription)
	}
	if result.VATRate != 18 {
		t.Errorf("VATRate = %v, want 18", result.VATRate)
	}
}

func TestVerify_LadderFallsBackToDotted(t *testing.T) {
	tariff := newFakeTariff()
	tariff.records["customs_tariff/8471.30.0000"] = service.TariffRecord{
		DutyRate:   "0%",
		ExactMatch: true,
	}
	v, _ := newTestVerifier(tariff, nil)

	result := v.Verify(context.Background(), "8471300000", nil)
	if result.Status != model.StatusVerified {
		t.Fatalf("Status = %s, want verified via the dotted variant", result.Status)
	}
	if !result.ExactMatch {
		t.Error("a dotted-code hit is still exact")
	}
}

func TestVerify_HeadingHitIsNotExact(t *testing.T) {
	tariff := newFakeTariff()
	tariff.records["customs_tariff/8471"] = service.TariffRecord{
		DutyRate:   "0%",
		ExactMatch: true,
	}
	v, _ := newTestVerifier(tariff, nil)

	result := v.Verify(context.Background(), "8471300000", nil)
	if result.Status != model.StatusVerified {
		t.Fatalf("Status = %s, want verified via the heading", result.Status)
	}
	if result.ExactMatch {
		t.Error("a heading-level hit must not be marked exact")
	}
}

func TestVerify_CollectionPriority(t *testing.T) {
	tariff := newFakeTariff()
	tariff.records["customs_tariff/8471300000"] = service.TariffRecord{DutyRate: "0%", ExactMatch: true}
	tariff.records["tariff_archive/8471300000"] = service.TariffRecord{DutyRate: "12%", ExactMatch: true}
	v, _ := newTestVerifier(tariff, nil)

	result := v.Verify(context.Background(), "8471300000", nil)
	if len(result.Sources) != 1 || result.Sources[0] != "customs_tariff" {
		t.Errorf("Sources = %v, want the first collection only", result.Sources)
	}
	if result.DutyRate != "0%" {
		t.Errorf("DutyRate = %s, want the authoritative collection's rate", result.DutyRate)
	}
}

func TestVerify_FailedCollectionOmitted(t *testing.T) {
	tariff := newFakeTariff()
	tariff.failing["customs_tariff"] = fmt.Errorf("connection refused")
	tariff.records["trade_statistics/8471300000"] = service.TariffRecord{DutyRate: "0%", ExactMatch: true}
	v, _ := newTestVerifier(tariff, nil)

	result := v.Verify(context.Background(), "8471300000", nil)
	if result.Status != model.StatusVerified {
		t.Fatalf("Status = %s, the cascade should continue past a failed collection", result.Status)
	}
	if len(result.Sources) != 1 || result.Sources[0] != "trade_statistics" {
		t.Errorf("Sources = %v, want trade_statistics only", result.Sources)
	}
}

func TestVerify_RetryRecoversTransientFailure(t *testing.T) {
	tariff := newFakeTariff()
	tariff.failOnce["customs_tariff"] = fmt.Errorf("timeout")
	tariff.records["customs_tariff/8471300000"] = service.TariffRecord{DutyRate: "0%", ExactMatch: true}

	store := cache.NewMemoryStore()
	v := NewWithConfig(Deps{
		Cache:  cache.New(store, cache.DefaultTTL),
		Tariff: tariff,
	}, Config{
		VATRate: 18,
		Retry:   service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond},
	})

	result := v.Verify(context.Background(), "8471300000", nil)
	if result.Status != model.StatusVerified {
		t.Errorf("Status = %s, want verified after a retried lookup", result.Status)
	}
}

func TestVerify_NothingFoundIsUnverified(t *testing.T) {
	v, _ := newTestVerifier(newFakeTariff(), &fakeDecree{})

	result := v.Verify(context.Background(), "9999999999", nil)
	if result.Status != model.StatusUnverified {
		t.Errorf("Status = %s, want %s", result.Status, model.StatusUnverified)
	}
	if result.Verified {
		t.Error("Verified should be false")
	}
}

func TestVerify_DecreeOnlyIsVerified(t *testing.T) {
	decree := &fakeDecree{results: map[string]*service.DecreeResult{
		"8471300000": {
			Found: true,
			Items: []service.DecreeItem{
				{HSCode: "847130", Requirements: []string{"standards institute approval"}},
			},
		},
	}}
	v, _ := newTestVerifier(newFakeTariff(), decree)

	result := v.Verify(context.Background(), "8471300000", nil)
	if result.Status != model.StatusVerified {
		t.Errorf("Status = %s, want %s", result.Status, model.StatusVerified)
	}
	if len(result.Requirements) != 1 || result.Requirements[0] != "standards institute approval" {
		t.Errorf("Requirements = %v", result.Requirements)
	}
}

func TestVerify_ReferenceAndDecreeIsOfficial(t *testing.T) {
	tariff := newFakeTariff()
	tariff.records["customs_tariff/8471300000"] = service.TariffRecord{DutyRate: "0%", ExactMatch: true}
	decree := &fakeDecree{results: map[string]*service.DecreeResult{
		"8471300000": {Found: true},
	}}
	v, _ := newTestVerifier(tariff, decree)

	result := v.Verify(context.Background(), "8471300000", nil)
	if result.Status != model.StatusOfficial {
		t.Errorf("Status = %s, want %s", result.Status, model.StatusOfficial)
	}
}

func TestVerify_CallerSuppliedDecreeSkipsLookup(t *testing.T) {
	decree := &fakeDecree{}
	v, _ := newTestVerifier(newFakeTariff(), decree)

	supplied := &service.DecreeResult{Found: true}
	v.Verify(context.Background(), "8471300000", supplied)
	if decree.calls != 0 {
		t.Errorf("decree lookups = %d, want 0 when the caller supplies a result", decree.calls)
	}
}

func TestVerify_DecreeRequirementsDeduplicated(t *testing.T) {
	decree := &fakeDecree{results: map[string]*service.DecreeResult{
		"8471300000": {
			Found: true,
			Items: []service.DecreeItem{
				{HSCode: "8471", Requirements: []string{"import license", ""}},
				{HSCode: "847130", Requirements: []string{"import license", "standards approval"}},
				{HSCode: "850760", Requirements: []string{"dangerous goods permit"}},
			},
		},
	}}
	v, _ := newTestVerifier(newFakeTariff(), decree)

	result := v.Verify(context.Background(), "8471300000", nil)
	want := []string{"import license", "standards approval"}
	if len(result.Requirements) != len(want) {
		t.Fatalf("Requirements = %v, want %v", result.Requirements, want)
	}
	for i := range want {
		if result.Requirements[i] != want[i] {
			t.Errorf("Requirements[%d] = %s, want %s", i, result.Requirements[i], want[i])
		}
	}
}

func TestVerify_CacheHitSkipsSources(t *testing.T) {
	tariff := newFakeTariff()
	tariff.records["customs_tariff/8471300000"] = service.TariffRecord{DutyRate: "0%", ExactMatch: true}
	decree := &fakeDecree{}
	v, _ := newTestVerifier(tariff, decree)
	ctx := context.Background()

	first := v.Verify(ctx, "8471300000", nil)
	if first.FromCache {
		t.Fatal("first call must not come from cache")
	}
	callsAfterFirst := tariff.calls

	second := v.Verify(ctx, "8471300000", nil)
	if !second.FromCache {
		t.Error("second call should come from cache")
	}
	if tariff.calls != callsAfterFirst {
		t.Errorf("tariff lookups = %d after cached call, want %d", tariff.calls, callsAfterFirst)
	}
	if decree.calls != 1 {
		t.Errorf("decree lookups = %d, want 1", decree.calls)
	}

	if second.Status != first.Status || second.DutyRate != first.DutyRate {
		t.Error("cached result must match the original")
	}
}

func TestVerify_NegativeOutcomeCached(t *testing.T) {
	tariff := newFakeTariff()
	v, _ := newTestVerifier(tariff, nil)
	ctx := context.Background()

	v.Verify(ctx, "9999999999", nil)
	callsAfterFirst := tariff.calls

	second := v.Verify(ctx, "9999999999", nil)
	if !second.FromCache {
		t.Error("negative outcome should be cached")
	}
	if tariff.calls != callsAfterFirst {
		t.Error("cached negative outcome must not re-query the sources")
	}
}

func TestVerify_PurchaseTaxPopulated(t *testing.T) {
	v, _ := newTestVerifier(newFakeTariff(), nil)

	result := v.Verify(context.Background(), "8703231000", nil)
	if !result.PurchaseTax.Applies {
		t.Error("passenger vehicles carry purchase tax")
	}
	if result.PurchaseTax.Category != "vehicles" {
		t.Errorf("Category = %s", result.PurchaseTax.Category)
	}

	general := v.Verify(context.Background(), "8471300000", nil)
	if general.PurchaseTax.Applies {
		t.Error("general goods carry no purchase tax")
	}
}

func TestRouting(t *testing.T) {
	store := cache.NewMemoryStore()
	v := NewWithConfig(Deps{
		Cache:  cache.New(store, cache.DefaultTTL),
		Tariff: newFakeTariff(),
		Regulatory: &fakeRegulatory{routes: map[string]service.RegulatoryInfo{
			"8471300000": {Ministries: []string{"communications"}, RiskLevel: "low"},
		}},
	}, fastConfig())

	routing := v.Routing(context.Background(), []string{"8471.30.0000", "9999999999", "8471300000"})
	if len(routing) != 1 {
		t.Fatalf("len(routing) = %d, want 1", len(routing))
	}
	if got := routing["8471300000"]; len(got.Ministries) != 1 || got.Ministries[0] != "communications" {
		t.Errorf("routing = %+v", got)
	}
}

func TestPrefixMatch(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		item      string
		want      bool
	}{
		{name: "direct prefix", candidate: "8471300000", item: "847130", want: true},
		{name: "trailing zeros stripped", candidate: "8471300000", item: "8471000000", want: true},
		{name: "dotted item code", candidate: "8471300000", item: "8471.30", want: true},
		{name: "different heading", candidate: "8471300000", item: "8517", want: false},
		{name: "all zeros never matches", candidate: "8471300000", item: "0000", want: false},
		{name: "empty item", candidate: "8471300000", item: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := prefixMatch(tt.candidate, tt.item); got != tt.want {
				t.Errorf("prefixMatch(%q, %q) = %v, want %v", tt.candidate, tt.item, got, tt.want)
			}
		})
	}
}
