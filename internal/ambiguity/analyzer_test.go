package ambiguity

import (
	"testing"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

func TestAnalyze_Empty(t *testing.T) {
	a := Analyze(nil, nil)
	if a.IsAmbiguous {
		t.Error("empty candidate set should not be ambiguous")
	}
	if a.Reason != model.ReasonNoClassifications {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonNoClassifications)
	}
}

func TestAnalyze_Single(t *testing.T) {
	tests := []struct {
		name          string
		confidence    float64
		wantAmbiguous bool
		wantReason    model.AmbiguityReason
	}{
		{name: "high confidence", confidence: 85, wantAmbiguous: false, wantReason: model.ReasonSingleHighConfidence},
		{name: "at threshold", confidence: 70, wantAmbiguous: false, wantReason: model.ReasonSingleHighConfidence},
		{name: "below threshold", confidence: 69, wantAmbiguous: true, wantReason: model.ReasonSingleLowConfidence},
		{name: "very low", confidence: 20, wantAmbiguous: true, wantReason: model.ReasonSingleLowConfidence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Analyze([]model.Candidate{{Code: "8471300000", Confidence: tt.confidence}}, nil)
			if a.IsAmbiguous != tt.wantAmbiguous {
				t.Errorf("IsAmbiguous = %v, want %v", a.IsAmbiguous, tt.wantAmbiguous)
			}
			if a.Reason != tt.wantReason {
				t.Errorf("Reason = %s, want %s", a.Reason, tt.wantReason)
			}
		})
	}
}

func TestAnalyze_ClearWinner(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "8471300000", Confidence: 85},
		{Code: "8471410000", Confidence: 60},
	}

	a := Analyze(candidates, nil)
	if a.IsAmbiguous {
		t.Error("85 vs 60 should be a clear winner")
	}
	if a.Reason != model.ReasonClearWinner {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonClearWinner)
	}
	if a.ConfidenceGap != 25 {
		t.Errorf("ConfidenceGap = %v, want 25", a.ConfidenceGap)
	}
}

func TestAnalyze_ChapterConflict(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 70, DutyRate: "6%"},
		{Code: "6205200000", Confidence: 65, DutyRate: "12%"},
	}

	a := Analyze(candidates, nil)
	if !a.IsAmbiguous {
		t.Fatal("cross-chapter candidates should be ambiguous")
	}
	if a.Reason != model.ReasonChapterConflict {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonChapterConflict)
	}
	if !a.ChapterConflict {
		t.Error("ChapterConflict should be set")
	}
	if a.DutySpread != 6 {
		t.Errorf("DutySpread = %v, want 6", a.DutySpread)
	}
}

func TestAnalyze_NearEqual(t *testing.T) {
	// Same chapter, aluminum structures: the classic 7604 vs 7610 split.
	candidates := []model.Candidate{
		{Code: "7604290000", Confidence: 55, DutyRate: "6%"},
		{Code: "7610100000", Confidence: 52, DutyRate: "12%"},
	}

	a := Analyze(candidates, nil)
	if !a.IsAmbiguous {
		t.Fatal("near-equal candidates should be ambiguous")
	}
	if a.Reason != model.ReasonNearEqualConfidence {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonNearEqualConfidence)
	}
	if a.ChapterConflict {
		t.Error("same-chapter set should not flag a chapter conflict")
	}
	if a.DutySpread != 6 {
		t.Errorf("DutySpread = %v, want 6", a.DutySpread)
	}
}

func TestAnalyze_AllLow(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "8471300000", Confidence: 55},
		{Code: "8471410000", Confidence: 40},
	}

	a := Analyze(candidates, nil)
	if !a.IsAmbiguous {
		t.Fatal("all-low candidates should be ambiguous")
	}
	if a.Reason != model.ReasonAllLowConfidence {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonAllLowConfidence)
	}
}

func TestAnalyze_MultipleCandidatesFallback(t *testing.T) {
	// Confident leader, small field, no conflict: borderline but still
	// flagged as ambiguous with the generic reason.
	candidates := []model.Candidate{
		{Code: "8471300000", Confidence: 75},
		{Code: "8471410000", Confidence: 62},
	}

	a := Analyze(candidates, nil)
	if !a.IsAmbiguous {
		t.Fatal("expected ambiguity")
	}
	if a.Reason != model.ReasonMultipleCandidates {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonMultipleCandidates)
	}
}

func TestAnalyze_CompetingCapped(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "8471300000", Confidence: 50},
		{Code: "8471410000", Confidence: 49},
		{Code: "8471490000", Confidence: 48},
		{Code: "8471500000", Confidence: 47},
		{Code: "8471600000", Confidence: 46},
		{Code: "8471700000", Confidence: 45},
	}

	a := Analyze(candidates, nil)
	if len(a.Competing) != 4 {
		t.Errorf("len(Competing) = %d, want 4", len(a.Competing))
	}
	if a.Competing[0].Code != "8471300000" {
		t.Errorf("Competing[0] = %s, want the highest-confidence candidate", a.Competing[0].Code)
	}
}

func TestAnalyze_InputNotModified(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6205200000", Confidence: 40},
		{Code: "6109100000", Confidence: 70},
	}

	Analyze(candidates, nil)
	if candidates[0].Code != "6205200000" {
		t.Error("Analyze must not reorder its input")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 60, DutyRate: "6%"},
		{Code: "6205200000", Confidence: 60, DutyRate: "12%"},
	}

	first := Analyze(candidates, nil)
	second := Analyze(candidates, nil)
	if first.Reason != second.Reason || first.Competing[0].Code != second.Competing[0].Code {
		t.Error("same input must yield the same assessment")
	}
}

func TestAnalyze_DutySpreadExcludesUnparsable(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 55, DutyRate: "6%"},
		{Code: "6205200000", Confidence: 50, DutyRate: "free"},
		{Code: "6211330000", Confidence: 45, DutyRate: "12%"},
	}

	a := Analyze(candidates, nil)
	if a.DutySpread != 6 {
		t.Errorf("DutySpread = %v, want 6 (unparsable rates excluded)", a.DutySpread)
	}
}

func TestAnalyze_DutySpreadNeedsTwoRates(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 55, DutyRate: "6%"},
		{Code: "6205200000", Confidence: 50, DutyRate: "free"},
	}

	a := Analyze(candidates, nil)
	if a.DutySpread != 0 {
		t.Errorf("DutySpread = %v, want 0 with a single parseable rate", a.DutySpread)
	}
}

func TestAnalyze_RegulatoryDivergence(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "8471300000", Confidence: 60},
		{Code: "9018900000", Confidence: 55},
	}
	routing := map[string]service.RegulatoryInfo{
		"8471300000": {Ministries: []string{"communications"}},
		"9018900000": {Ministries: []string{"health"}},
	}

	a := Analyze(candidates, routing)
	if !a.RegulatoryDivergence {
		t.Error("different ministry sets should flag regulatory divergence")
	}

	sameRouting := map[string]service.RegulatoryInfo{
		"8471300000": {Ministries: []string{"economy"}},
		"9018900000": {Ministries: []string{"economy"}},
	}
	a = Analyze(candidates, sameRouting)
	if a.RegulatoryDivergence {
		t.Error("identical ministry sets should not flag divergence")
	}

	// Routing missing for one candidate: cannot conclude divergence.
	partial := map[string]service.RegulatoryInfo{
		"8471300000": {Ministries: []string{"communications"}},
	}
	a = Analyze(candidates, partial)
	if a.RegulatoryDivergence {
		t.Error("missing routing must not be treated as divergence")
	}
}
