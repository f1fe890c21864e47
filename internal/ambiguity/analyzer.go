// Package ambiguity decides whether a verified candidate set is too
// uncertain to act on, and characterizes why.
package ambiguity

import (
	"sort"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// Analyzer thresholds. A single candidate at or above SingleHighConfidence
// needs no clarification; a leader at or above ClearWinnerConfidence with a
// lead of ClearWinnerGap or more wins outright.
const (
	SingleHighConfidence  = 70.0
	ClearWinnerConfidence = 80.0
	ClearWinnerGap        = 25.0
	NearEqualGap          = 10.0
	LowConfidence         = 60.0

	maxCompeting = 4
)

// Analyze assesses a candidate set for ambiguity. Pure function: the input
// slice is not modified, and the same input always yields the same
// assessment. The optional routing map (ministries keyed by normalized
// code) enables the regulatory-divergence check.
func Analyze(candidates []model.Candidate, routing map[string]service.RegulatoryInfo) model.AmbiguityAssessment {
	switch len(candidates) {
	case 0:
		return model.AmbiguityAssessment{
			IsAmbiguous: false,
			Reason:      model.ReasonNoClassifications,
		}
	case 1:
		return analyzeSingle(candidates[0])
	default:
		return analyzeMultiple(candidates, routing)
	}
}

func analyzeSingle(c model.Candidate) model.AmbiguityAssessment {
	if c.Confidence >= SingleHighConfidence {
		return model.AmbiguityAssessment{
			IsAmbiguous:   false,
			Reason:        model.ReasonSingleHighConfidence,
			TopConfidence: c.Confidence,
		}
	}
	return model.AmbiguityAssessment{
		IsAmbiguous:   true,
		Reason:        model.ReasonSingleLowConfidence,
		Competing:     []model.Candidate{c},
		TopConfidence: c.Confidence,
	}
}

func analyzeMultiple(candidates []model.Candidate, routing map[string]service.RegulatoryInfo) model.AmbiguityAssessment {
	// Stable sort keeps input order for equal confidences, which keeps the
	// whole assessment deterministic.
	sorted := make([]model.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	top, runnerUp := sorted[0], sorted[1]
	gap := top.Confidence - runnerUp.Confidence

	if top.Confidence >= ClearWinnerConfidence && gap >= ClearWinnerGap {
		return model.AmbiguityAssessment{
			IsAmbiguous:   false,
			Reason:        model.ReasonClearWinner,
			TopConfidence: top.Confidence,
			ConfidenceGap: gap,
		}
	}

	competing := sorted
	if len(competing) > maxCompeting {
		competing = competing[:maxCompeting]
	}

	assessment := model.AmbiguityAssessment{
		IsAmbiguous:     true,
		Competing:       competing,
		ChapterConflict: chapterConflict(competing),
		DutySpread:      dutySpread(competing),
		TopConfidence:   top.Confidence,
		ConfidenceGap:   gap,
	}

	if assessment.ChapterConflict && routing != nil {
		assessment.RegulatoryDivergence = regulatoryDivergence(top, runnerUp, routing)
	}

	switch {
	case assessment.ChapterConflict:
		assessment.Reason = model.ReasonChapterConflict
	case gap < NearEqualGap:
		assessment.Reason = model.ReasonNearEqualConfidence
	case top.Confidence < LowConfidence:
		assessment.Reason = model.ReasonAllLowConfidence
	default:
		assessment.Reason = model.ReasonMultipleCandidates
	}

	return assessment
}

// chapterConflict reports whether the competing set spans more than one
// 2-digit HS chapter.
func chapterConflict(competing []model.Candidate) bool {
	chapters := make(map[string]bool, len(competing))
	for _, c := range competing {
		chapters[c.Chapter()] = true
	}
	return len(chapters) > 1
}

// dutySpread is max minus min of the parseable duty percentages among the
// competing candidates. Candidates whose duty text carries no percentage
// are excluded; fewer than two parseable rates yields zero.
func dutySpread(competing []model.Candidate) float64 {
	var rates []float64
	for _, c := range competing {
		if n, ok := common.ParsePercent(c.DutyRate); ok {
			rates = append(rates, n)
		}
	}
	if len(rates) < 2 {
		return 0
	}

	minRate, maxRate := rates[0], rates[0]
	for _, n := range rates[1:] {
		if n < minRate {
			minRate = n
		}
		if n > maxRate {
			maxRate = n
		}
	}
	return maxRate - minRate
}

// regulatoryDivergence is true when the top two candidates route to
// different sets of approving ministries.
func regulatoryDivergence(top, runnerUp model.Candidate, routing map[string]service.RegulatoryInfo) bool {
	topInfo, topOK := routing[model.NormalizeCode(top.Code).Full]
	runnerInfo, runnerOK := routing[model.NormalizeCode(runnerUp.Code).Full]
	if !topOK || !runnerOK {
		return false
	}
	return !sameMinistries(topInfo.Ministries, runnerInfo.Ministries)
}

func sameMinistries(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, m := range a {
		set[m] = true
	}
	other := make(map[string]bool, len(b))
	for _, m := range b {
		other[m] = true
	}
	if len(set) != len(other) {
		return false
	}
	for m := range set {
		if !other[m] {
			return false
		}
	}
	return true
}
