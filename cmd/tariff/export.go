package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/ambiguity"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cli"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/config"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/question"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a verification report to Google Sheets",
		Long: `Export runs the full pipeline over a candidates file and writes the
verification report to Google Sheets for review.

Requires Google Sheets credentials; see the sheets.* config keys or the
GOOGLE_SHEETS_* environment variables.`,
		Example: `  tariff export --file candidates.json
  tariff export --file candidates.json --origin TR`,
		RunE: runExport,
	}

	cmd.Flags().StringP("file", "f", "", "JSON file with candidate classifications (required)")
	cmd.Flags().String("origin", "", "origin country code, if known")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	origin, _ := cmd.Flags().GetString("origin")

	candidates, err := loadCandidates(file)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.Load()

	store, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	verifier := initVerifier(cfg, store)

	bar := cli.NewVerifyProgress(len(candidates), os.Stderr)
	verified := verifier.VerifyAllProgress(ctx, candidates, func(done, _ int) {
		_ = bar.Set(done)
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	codes := make([]string, 0, len(verified))
	for i := range verified {
		codes = append(codes, verified[i].Code)
	}
	routing := verifier.Routing(ctx, codes)
	assessment := ambiguity.Analyze(verified, routing)

	questions := question.Generate(question.Input{
		Assessment:    assessment,
		Routing:       routing,
		OriginCountry: origin,
	})

	if err := exportReport(ctx, sheets.Report{
		GeneratedAt: time.Now(),
		RunID:       uuid.NewString(),
		Candidates:  verified,
		Assessment:  assessment,
		Questions:   questions,
	}); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Report exported."))
	return nil
}

func exportReport(ctx context.Context, report sheets.Report) error {
	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
