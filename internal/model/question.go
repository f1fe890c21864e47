package model

import (
	"fmt"
	"sort"
)

// QuestionCategory groups clarification questions by the kind of
// uncertainty they resolve.
type QuestionCategory string

// Question category constants.
const (
	CategoryClassification QuestionCategory = "classification"
	CategoryRegulatory     QuestionCategory = "regulatory"
	CategoryDocument       QuestionCategory = "document"
	CategoryOrigin         QuestionCategory = "origin"
)

// Validate checks the category is one of the known values.
func (c QuestionCategory) Validate() error {
	switch c {
	case CategoryClassification, CategoryRegulatory, CategoryDocument, CategoryOrigin:
		return nil
	default:
		return fmt.Errorf("unknown question category %q", string(c))
	}
}

// QuestionOption is one selectable answer to a clarification question.
type QuestionOption struct {
	Label       string
	Code        string
	DutyRate    string
	Implication string
}

// Question is a single elimination-based clarification question. Option
// order is significant and must be preserved by downstream renderers.
type Question struct {
	ID       string
	Text     string
	Context  string
	Options  []QuestionOption
	Priority int
	Category QuestionCategory
}

// Validate ensures the question is well formed.
func (q *Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if q.Priority < 1 || q.Priority > 3 {
		return fmt.Errorf("priority must be 1-3, got %d", q.Priority)
	}
	return q.Category.Validate()
}

// Questions is an ordered list of clarification questions.
type Questions []Question

// SortByPriority orders questions ascending by priority. The sort is
// stable: questions sharing a priority keep their insertion order.
func (q Questions) SortByPriority() {
	sort.SliceStable(q, func(i, j int) bool {
		return q[i].Priority < q[j].Priority
	})
}
