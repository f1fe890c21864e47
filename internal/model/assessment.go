package model

import "fmt"

// AmbiguityReason characterizes why a candidate set is (or is not)
// ambiguous.
type AmbiguityReason string

// Ambiguity reason constants.
const (
	ReasonNoClassifications    AmbiguityReason = "no_classifications"
	ReasonSingleHighConfidence AmbiguityReason = "single_high_confidence"
	ReasonSingleLowConfidence  AmbiguityReason = "single_low_confidence"
	ReasonClearWinner          AmbiguityReason = "clear_winner"
	ReasonChapterConflict      AmbiguityReason = "chapter_conflict"
	ReasonNearEqualConfidence  AmbiguityReason = "near_equal_confidence"
	ReasonAllLowConfidence     AmbiguityReason = "all_low_confidence"
	ReasonMultipleCandidates   AmbiguityReason = "multiple_candidates"
)

// Validate checks the reason is one of the known values.
func (r AmbiguityReason) Validate() error {
	switch r {
	case ReasonNoClassifications, ReasonSingleHighConfidence, ReasonSingleLowConfidence,
		ReasonClearWinner, ReasonChapterConflict, ReasonNearEqualConfidence,
		ReasonAllLowConfidence, ReasonMultipleCandidates:
		return nil
	default:
		return fmt.Errorf("unknown ambiguity reason %q", string(r))
	}
}

// AmbiguityAssessment is the analyzer's verdict on a candidate set.
// Pure derived value; recomputed on demand, never persisted.
type AmbiguityAssessment struct {
	IsAmbiguous          bool
	Reason               AmbiguityReason
	Competing            []Candidate
	ChapterConflict      bool
	DutySpread           float64
	RegulatoryDivergence bool
	TopConfidence        float64
	ConfidenceGap        float64
}
