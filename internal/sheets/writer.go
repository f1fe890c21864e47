package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
)

// Writer exports verification reports to Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	svc, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: svc,
		logger:  logger,
	}, nil
}

// Write exports one verification report, replacing the sheet's contents.
func (w *Writer) Write(ctx context.Context, report Report) error {
	w.logger.Info("starting report export",
		"run_id", report.RunID,
		"candidates", len(report.Candidates),
		"questions", len(report.Questions))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := prepareReportData(report)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: "Verification",
				},
			},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// clearSheet clears all data from the sheet.
func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes the prepared rows starting at A1.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	valueRange := &sheets.ValueRange{Values: values}
	_, err := w.service.Spreadsheets.Values.
		Update(spreadsheetID, "A1", valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

// prepareReportData renders a report as spreadsheet rows: header, candidate
// table, assessment summary, then the clarification questions in their
// generated order.
func prepareReportData(report Report) [][]any {
	estimatedRows := 12 + len(report.Candidates) + len(report.Questions)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{"Customs Verification Report", report.GeneratedAt.Format("Jan 2, 2006 15:04")},
		[]any{"Run", report.RunID},
		[]any{},
		[]any{"Code", "Description", "Confidence", "Status", "Sources", "Duty Rate", "Purchase Tax", "VAT %", "Requirements"},
	)

	for _, c := range report.Candidates {
		purchaseTax := ""
		if c.PurchaseTax != nil && c.PurchaseTax.Applies {
			purchaseTax = c.PurchaseTax.Rate
		}
		values = append(values, []any{
			c.Code,
			c.Description,
			c.Confidence,
			string(c.VerificationStatus),
			strings.Join(c.VerificationSources, ", "),
			c.DutyRate,
			purchaseTax,
			c.VATRate,
			strings.Join(c.Requirements, ", "),
		})
	}

	values = append(values,
		[]any{},
		[]any{"Assessment"},
		[]any{"Ambiguous", report.Assessment.IsAmbiguous},
		[]any{"Reason", string(report.Assessment.Reason)},
		[]any{"Chapter conflict", report.Assessment.ChapterConflict},
		[]any{"Duty spread", report.Assessment.DutySpread},
		[]any{"Top confidence", report.Assessment.TopConfidence},
		[]any{"Confidence gap", report.Assessment.ConfidenceGap},
	)

	if len(report.Questions) > 0 {
		values = append(values,
			[]any{},
			[]any{"Priority", "Category", "Question", "Options"},
		)
		for _, q := range report.Questions {
			values = append(values, []any{
				q.Priority,
				string(q.Category),
				q.Text,
				formatOptions(q.Options),
			})
		}
	}

	return values
}

func formatOptions(options []model.QuestionOption) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		part := o.Label
		if o.Code != "" {
			part += " (" + o.Code + ")"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " | ")
}
