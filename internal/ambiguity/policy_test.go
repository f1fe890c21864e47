package ambiguity

import (
	"testing"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

func TestPolicy_ShouldAskQuestions(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name       string
		assessment model.AmbiguityAssessment
		want       bool
	}{
		{
			name:       "not ambiguous never escalates",
			assessment: model.AmbiguityAssessment{IsAmbiguous: false, TopConfidence: 30},
			want:       false,
		},
		{
			name:       "chapter conflict",
			assessment: model.AmbiguityAssessment{IsAmbiguous: true, ChapterConflict: true, TopConfidence: 90, ConfidenceGap: 20},
			want:       true,
		},
		{
			name:       "regulatory divergence",
			assessment: model.AmbiguityAssessment{IsAmbiguous: true, RegulatoryDivergence: true, TopConfidence: 90, ConfidenceGap: 20},
			want:       true,
		},
		{
			name:       "duty spread at threshold",
			assessment: model.AmbiguityAssessment{IsAmbiguous: true, DutySpread: 4, TopConfidence: 90, ConfidenceGap: 20},
			want:       true,
		},
		{
			name:       "low top confidence",
			assessment: model.AmbiguityAssessment{IsAmbiguous: true, TopConfidence: 59, ConfidenceGap: 20},
			want:       true,
		},
		{
			name:       "small gap",
			assessment: model.AmbiguityAssessment{IsAmbiguous: true, TopConfidence: 90, ConfidenceGap: 14},
			want:       true,
		},
		{
			name:       "ambiguous but every threshold clear",
			assessment: model.AmbiguityAssessment{IsAmbiguous: true, TopConfidence: 90, ConfidenceGap: 20, DutySpread: 2},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.ShouldAskQuestions(tt.assessment); got != tt.want {
				t.Errorf("ShouldAskQuestions() = %v, want %v", got, tt.want)
			}
		})
	}
}
