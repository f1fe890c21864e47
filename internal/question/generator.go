// Package question builds the ordered clarification-question list for an
// ambiguous candidate set. All text is assembled from templates and
// already-computed data; no network or model calls.
package question

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/reference"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// Document kinds the pipeline expects to find in a declaration file set.
const (
	DocCommercialInvoice = "commercial_invoice"
	DocPackingList       = "packing_list"
	DocTransport         = "transport_document"
)

const (
	maxOptions      = 3
	descTruncateLen = 40
)

// Input carries the assessment plus the shipment context the generator
// draws on: ministry routing per normalized code, the origin country if
// known, and the kinds of documents already parsed.
type Input struct {
	Assessment    model.AmbiguityAssessment
	Routing       map[string]service.RegulatoryInfo
	OriginCountry string
	Documents     []string
}

// Generate builds the clarification questions for an ambiguous assessment,
// stable-sorted ascending by priority. A non-ambiguous assessment yields no
// questions.
func Generate(in Input) model.Questions {
	if !in.Assessment.IsAmbiguous {
		return nil
	}

	var questions model.Questions

	if q := classificationQuestion(in); q != nil {
		questions = append(questions, *q)
	}
	if q := materialQuestion(in.Assessment); q != nil {
		questions = append(questions, *q)
	}
	if q := originQuestion(in.OriginCountry); q != nil {
		questions = append(questions, *q)
	}
	if q := documentsQuestion(in.Documents); q != nil {
		questions = append(questions, *q)
	}
	if q := regulatoryQuestion(in); q != nil {
		questions = append(questions, *q)
	}

	questions.SortByPriority()
	return questions
}

// classificationQuestion is the priority-1 elimination question between the
// competing classifications. Always generated when two or more candidates
// compete.
func classificationQuestion(in Input) *model.Question {
	competing := in.Assessment.Competing
	if len(competing) < 2 {
		return nil
	}

	top, runnerUp := competing[0], competing[1]
	q := model.Question{
		ID:       uuid.NewString(),
		Priority: 1,
		Category: model.CategoryClassification,
		Options:  classificationOptions(competing, in.Routing),
	}

	switch {
	case hasHint(top, runnerUp):
		hint, _ := reference.HintForChapters(top.Chapter(), runnerUp.Chapter())
		q.Text = hint.Question
		q.Context = hint.Context
	case in.Assessment.ChapterConflict:
		q.Text = fmt.Sprintf("Does the product belong to chapter %s (%s) or chapter %s (%s)?",
			top.Chapter(), truncate(top.Description),
			runnerUp.Chapter(), truncate(runnerUp.Description))
		q.Context = "The candidates fall in different HS chapters, which lead to different regulatory paths, duty rates and approving ministries."
	default:
		q.Text = "What is the exact product description, including material, function and intended use?"
		q.Context = sideBySide(top, runnerUp, in.Routing)
	}

	return &q
}

func hasHint(a, b model.Candidate) bool {
	if a.Chapter() == b.Chapter() {
		return false
	}
	_, ok := reference.HintForChapters(a.Chapter(), b.Chapter())
	return ok
}

// classificationOptions renders up to three candidates as selectable
// answers, each with a derived implication string.
func classificationOptions(competing []model.Candidate, routing map[string]service.RegulatoryInfo) []model.QuestionOption {
	n := len(competing)
	if n > maxOptions {
		n = maxOptions
	}

	options := make([]model.QuestionOption, 0, n)
	for _, c := range competing[:n] {
		label := c.Description
		if label == "" {
			label = c.Code
		}
		options = append(options, model.QuestionOption{
			Label:       label,
			Code:        c.Code,
			DutyRate:    c.DutyRate,
			Implication: implication(c, routing),
		})
	}
	return options
}

// implication summarizes what choosing a candidate entails: its known legal
// requirements plus a risk flag when the routing marks it high or critical.
func implication(c model.Candidate, routing map[string]service.RegulatoryInfo) string {
	var parts []string
	if len(c.Requirements) > 0 {
		parts = append(parts, "requires: "+strings.Join(c.Requirements, ", "))
	}

	if info, ok := routing[model.NormalizeCode(c.Code).Full]; ok {
		switch info.RiskLevel {
		case "high", "critical":
			parts = append(parts, fmt.Sprintf("flagged %s risk", info.RiskLevel))
		}
	}

	if len(parts) == 0 {
		return "no special requirements known"
	}
	return strings.Join(parts, "; ")
}

// sideBySide compares the top two candidates for the same-chapter case:
// code, description, duty rate, required approvals and approving authority.
func sideBySide(top, runnerUp model.Candidate, routing map[string]service.RegulatoryInfo) string {
	var b strings.Builder
	b.WriteString("The candidates differ only at the subheading level. Comparison:\n")
	for _, c := range []model.Candidate{top, runnerUp} {
		b.WriteString(fmt.Sprintf("- %s: %s | duty %s", c.Code, truncate(c.Description), displayRate(c.DutyRate)))
		if len(c.Requirements) > 0 {
			b.WriteString(" | approvals: " + strings.Join(c.Requirements, ", "))
		}
		if info, ok := routing[model.NormalizeCode(c.Code).Full]; ok && len(info.Ministries) > 0 {
			b.WriteString(" | authority: " + strings.Join(info.Ministries, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// materialQuestion asks for the primary material when the duty spread makes
// the answer financially significant.
func materialQuestion(a model.AmbiguityAssessment) *model.Question {
	if a.DutySpread < 4 {
		return nil
	}

	lowest, highest, ok := dutyExtremes(a.Competing)
	if !ok {
		return nil
	}

	return &model.Question{
		ID:       uuid.NewString(),
		Priority: 2,
		Category: model.CategoryClassification,
		Text:     "What is the product's primary material or composition?",
		Context: fmt.Sprintf(
			"The material decides between %s (duty %s) and %s (duty %s), a spread of %.1f%%.",
			lowest.Code, displayRate(lowest.DutyRate),
			highest.Code, displayRate(highest.DutyRate),
			a.DutySpread),
	}
}

// dutyExtremes picks the lowest- and highest-duty candidates among those
// with a parseable duty percentage.
func dutyExtremes(competing []model.Candidate) (lowest, highest model.Candidate, ok bool) {
	found := false
	var minRate, maxRate float64
	for _, c := range competing {
		n, parsed := common.ParsePercent(c.DutyRate)
		if !parsed {
			continue
		}
		if !found || n < minRate {
			minRate, lowest = n, c
		}
		if !found || n > maxRate {
			maxRate, highest = n, c
		}
		found = true
	}
	return lowest, highest, found
}

// originQuestion asks for the country of origin when the invoice data does
// not carry one.
func originQuestion(origin string) *model.Question {
	if strings.TrimSpace(origin) != "" {
		return nil
	}

	return &model.Question{
		ID:       uuid.NewString(),
		Priority: 2,
		Category: model.CategoryOrigin,
		Text:     "What is the country of origin of the goods?",
		Context:  "Origin determines free-trade-agreement eligibility and can reduce or eliminate the duty.",
		Options: []model.QuestionOption{
			{Label: "EU member state", Implication: "EU trade agreement: most industrial goods duty-free with EUR.1 / invoice declaration"},
			{Label: "United States", Implication: "US FTA: duty-free with certificate of origin"},
			{Label: "China or other non-agreement country", Implication: "full duty rate applies"},
		},
	}
}

// documentsQuestion names exactly the documents missing from the parsed
// set. Priority 1 when the commercial invoice itself is missing.
func documentsQuestion(documents []string) *model.Question {
	present := make(map[string]bool, len(documents))
	for _, d := range documents {
		present[d] = true
	}

	var missing []string
	for _, required := range []string{DocCommercialInvoice, DocPackingList, DocTransport} {
		if !present[required] {
			missing = append(missing, docLabel(required))
		}
	}
	if len(missing) == 0 {
		return nil
	}

	priority := 2
	if !present[DocCommercialInvoice] {
		priority = 1
	}

	return &model.Question{
		ID:       uuid.NewString(),
		Priority: priority,
		Category: model.CategoryDocument,
		Text:     fmt.Sprintf("The following documents are missing: %s. Can you provide them?", strings.Join(missing, ", ")),
		Context:  "Classification cannot be finalized without the full document set.",
	}
}

func docLabel(kind string) string {
	switch kind {
	case DocCommercialInvoice:
		return "commercial invoice"
	case DocPackingList:
		return "packing list"
	case DocTransport:
		return "transport document (bill of lading / air waybill)"
	default:
		return kind
	}
}

// regulatoryQuestion surfaces a ministry-routing split between the top
// candidates. Generated only when ministries are known for at least two of
// them.
func regulatoryQuestion(in Input) *model.Question {
	if !in.Assessment.RegulatoryDivergence {
		return nil
	}

	type route struct {
		code       string
		ministries []string
	}
	var routes []route
	for _, c := range in.Assessment.Competing {
		info, ok := in.Routing[model.NormalizeCode(c.Code).Full]
		if !ok || len(info.Ministries) == 0 {
			continue
		}
		routes = append(routes, route{code: c.Code, ministries: info.Ministries})
	}
	if len(routes) < 2 {
		return nil
	}

	var b strings.Builder
	for _, r := range routes {
		b.WriteString(fmt.Sprintf("- %s: approval by %s\n", r.code, strings.Join(r.ministries, ", ")))
	}
	b.WriteString("An approval from the wrong ministry will not release the shipment.")

	return &model.Question{
		ID:       uuid.NewString(),
		Priority: 1,
		Category: model.CategoryRegulatory,
		Text:     "Which ministry's import approval do you hold, if any?",
		Context:  b.String(),
	}
}

func displayRate(rate string) string {
	if strings.TrimSpace(rate) == "" {
		return "unknown"
	}
	return rate
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= descTruncateLen {
		return s
	}
	return string(r[:descTruncateLen]) + "…"
}
