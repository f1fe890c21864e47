package ambiguity

import (
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// ResolvedConfidence is the floor assigned to a candidate the user
// confirmed through a clarification answer.
const ResolvedConfidence = 95.0

// Resolve re-analyzes a candidate set after clarification answers.
// Candidates whose codes appear in confirmed (any spelling) are raised to
// at least ResolvedConfidence; the rest keep their confidence. Pure
// function: the input slice is not modified.
func Resolve(candidates []model.Candidate, confirmed []string, routing map[string]service.RegulatoryInfo) ([]model.Candidate, model.AmbiguityAssessment) {
	chosen := make(map[string]bool, len(confirmed))
	for _, code := range confirmed {
		if code != "" {
			chosen[model.NormalizeCode(code).Full] = true
		}
	}

	boosted := make([]model.Candidate, len(candidates))
	copy(boosted, candidates)
	for i := range boosted {
		if chosen[model.NormalizeCode(boosted[i].Code).Full] && boosted[i].Confidence < ResolvedConfidence {
			boosted[i].Confidence = ResolvedConfidence
		}
	}

	return boosted, Analyze(boosted, routing)
}
