package ambiguity

import "github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"

// Policy wraps the analyzer's assessment with business thresholds for the
// escalation decision. Deliberately more permissive than IsAmbiguous alone:
// a borderline-confident but regulation-divergent case still escalates.
type Policy struct {
	DutySpreadMin    float64
	LowConfidenceMax float64
	SmallGapMax      float64
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		DutySpreadMin:    4.0,
		LowConfidenceMax: 60.0,
		SmallGapMax:      15.0,
	}
}

// ShouldAskQuestions decides whether to escalate an assessment to a human
// with clarifying questions.
func (p Policy) ShouldAskQuestions(a model.AmbiguityAssessment) bool {
	if !a.IsAmbiguous {
		return false
	}
	return a.ChapterConflict ||
		a.RegulatoryDivergence ||
		a.DutySpread >= p.DutySpreadMin ||
		a.TopConfidence < p.LowConfidenceMax ||
		a.ConfidenceGap < p.SmallGapMax
}
