package ambiguity

import (
	"testing"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

func TestResolve_ConfirmedCandidateWins(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 65, DutyRate: "12%"},
		{Code: "6205200000", Confidence: 60, DutyRate: "6%"},
	}

	boosted, a := Resolve(candidates, []string{"6109100000"}, nil)
	if a.IsAmbiguous {
		t.Errorf("confirmed candidate should resolve the conflict, got reason %s", a.Reason)
	}
	if a.Reason != model.ReasonClearWinner {
		t.Errorf("Reason = %s, want %s", a.Reason, model.ReasonClearWinner)
	}
	if boosted[0].Confidence != ResolvedConfidence {
		t.Errorf("confirmed confidence = %v, want %v", boosted[0].Confidence, ResolvedConfidence)
	}
	if boosted[1].Confidence != 60 {
		t.Errorf("unconfirmed confidence = %v, want 60", boosted[1].Confidence)
	}
}

func TestResolve_DottedSpellingMatches(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 65},
		{Code: "6205200000", Confidence: 60},
	}

	boosted, _ := Resolve(candidates, []string{"6109.10.0000"}, nil)
	if boosted[0].Confidence != ResolvedConfidence {
		t.Errorf("dotted spelling should match, confidence = %v", boosted[0].Confidence)
	}
}

func TestResolve_UnknownCodeNoop(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 65},
		{Code: "6205200000", Confidence: 60},
	}

	boosted, a := Resolve(candidates, []string{"9999999999"}, nil)
	want := Analyze(candidates, nil)
	if a.Reason != want.Reason || a.IsAmbiguous != want.IsAmbiguous {
		t.Errorf("assessment changed: got %s/%v, want %s/%v", a.Reason, a.IsAmbiguous, want.Reason, want.IsAmbiguous)
	}
	for i := range boosted {
		if boosted[i].Confidence != candidates[i].Confidence {
			t.Errorf("candidate %d confidence changed to %v", i, boosted[i].Confidence)
		}
	}
}

func TestResolve_HigherConfidenceNotLowered(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 98},
		{Code: "6205200000", Confidence: 40},
	}

	boosted, _ := Resolve(candidates, []string{"6109100000"}, nil)
	if boosted[0].Confidence != 98 {
		t.Errorf("confidence = %v, want 98 kept", boosted[0].Confidence)
	}
}

func TestResolve_InputNotMutated(t *testing.T) {
	candidates := []model.Candidate{
		{Code: "6109100000", Confidence: 65},
		{Code: "6205200000", Confidence: 60},
	}

	_, _ = Resolve(candidates, []string{"6109100000", ""}, nil)
	if candidates[0].Confidence != 65 {
		t.Errorf("input mutated: confidence = %v", candidates[0].Confidence)
	}
}
