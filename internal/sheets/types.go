package sheets

import (
	"context"
	"time"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

// Report holds everything one export run writes to the spreadsheet.
type Report struct {
	GeneratedAt time.Time
	RunID       string
	Candidates  []model.Candidate
	Assessment  model.AmbiguityAssessment
	Questions   model.Questions
}

// ReportWriter is the export contract, satisfied by Writer and MockWriter.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}
