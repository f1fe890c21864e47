package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/ambiguity"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cli"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/config"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/question"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/service"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/sheets"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/tui"
)

func assessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Analyze candidate classifications for ambiguity",
		Long: `Assess verifies a set of candidate classifications, analyzes whether
they genuinely compete, and generates the clarification questions needed
to resolve the ambiguity. Questions are printed in priority order; with
--interactive or --tui they are asked one at a time.`,
		Example: `  tariff assess --file candidates.json
  tariff assess --file candidates.json --interactive
  tariff assess --file candidates.json --origin CN --docs commercial_invoice,packing_list
  tariff assess --file candidates.json --sheets`,
		RunE: runAssess,
	}

	cmd.Flags().StringP("file", "f", "", "JSON file with candidate classifications (required)")
	cmd.Flags().Bool("interactive", false, "ask the clarification questions on the terminal")
	cmd.Flags().Bool("tui", false, "ask the clarification questions in a full-screen form")
	cmd.Flags().String("origin", "", "origin country code, if known")
	cmd.Flags().StringSlice("docs", nil, "document kinds already received (commercial_invoice, packing_list, transport_document)")
	cmd.Flags().Bool("sheets", false, "export the assessment report to Google Sheets")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runAssess(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	interactive, _ := cmd.Flags().GetBool("interactive")
	useTUI, _ := cmd.Flags().GetBool("tui")
	origin, _ := cmd.Flags().GetString("origin")
	docs, _ := cmd.Flags().GetStringSlice("docs")
	toSheets, _ := cmd.Flags().GetBool("sheets")

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
	printAssessment(cmd, "Ambiguity assessment", assessment)

	policy := ambiguity.Policy{
		DutySpreadMin:    cfg.DutySpreadMin,
		LowConfidenceMax: cfg.LowConfidenceMax,
		SmallGapMax:      cfg.SmallGapMax,
	}

	var questions model.Questions
	if policy.ShouldAskQuestions(assessment) {
		questions = question.Generate(question.Input{
			Assessment:    assessment,
			Routing:       routing,
			OriginCountry: origin,
			Documents:     docs,
		})
	}

	switch {
	case len(questions) == 0:
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("No clarification needed."))
	case interactive:
		prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		answers, askErr := prompter.AskQuestions(ctx, questions)
		if askErr != nil {
			return askErr
		}
		printAnswers(cmd, answers)
		reassess(cmd, verified, answers, routing)
	case useTUI:
		answers, runErr := tui.Run(questions)
		if runErr != nil {
			return runErr
		}
		printAnswers(cmd, answers)
		reassess(cmd, verified, answers, routing)
	default:
		printQuestions(cmd, questions)
	}

	if toSheets {
		return exportReport(ctx, sheets.Report{
			GeneratedAt: time.Now(),
			RunID:       uuid.NewString(),
			Candidates:  verified,
			Assessment:  assessment,
			Questions:   questions,
		})
	}
	return nil
}

// reassess re-runs the analyzer with the candidates the user confirmed
// through their answers boosted.
func reassess(cmd *cobra.Command, verified []model.Candidate, answers []cli.Answer, routing map[string]service.RegulatoryInfo) {
	confirmed := confirmedCodes(answers)
	if len(confirmed) == 0 {
		return
	}

	_, resolved := ambiguity.Resolve(verified, confirmed, routing)
	fmt.Fprintln(cmd.OutOrStdout())
	printAssessment(cmd, "Re-assessment after clarification", resolved)
}

// confirmedCodes collects the candidate codes named by selected options.
func confirmedCodes(answers []cli.Answer) []string {
	var codes []string
	for _, a := range answers {
		if !a.Skipped && a.Selected != nil && a.Selected.Code != "" {
			codes = append(codes, a.Selected.Code)
		}
	}
	return codes
}

func printAssessment(cmd *cobra.Command, title string, a model.AmbiguityAssessment) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatTitle(title))
	if a.IsAmbiguous {
		fmt.Fprintf(out, "  %s\n", cli.FormatWarning(fmt.Sprintf("ambiguous (%s)", a.Reason)))
	} else {
		fmt.Fprintf(out, "  %s\n", cli.FormatSuccess(fmt.Sprintf("not ambiguous (%s)", a.Reason)))
	}
	fmt.Fprintf(out, "  Top confidence: %.0f  gap: %.0f\n", a.TopConfidence, a.ConfidenceGap)
	if a.ChapterConflict {
		fmt.Fprintln(out, "  "+cli.FormatWarning("candidates span different HS chapters"))
	}
	if a.DutySpread > 0 {
		fmt.Fprintf(out, "  Duty spread: %.1f points\n", a.DutySpread)
	}
	if a.RegulatoryDivergence {
		fmt.Fprintln(out, "  "+cli.FormatWarning("top candidates route to different ministries"))
	}
	for _, c := range a.Competing {
		fmt.Fprintf(out, "  • %s  %.0f%%  %s\n", model.NormalizeCode(c.Code).Dotted(), c.Confidence, c.Description)
	}
	fmt.Fprintln(out)
}

func printQuestions(cmd *cobra.Command, questions model.Questions) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s Clarification questions", cli.QuestionIcon)))
	for i, q := range questions {
		fmt.Fprintf(out, "%d. [P%d %s] %s\n", i+1, q.Priority, q.Category, q.Text)
		if q.Context != "" {
			fmt.Fprintf(out, "   %s\n", cli.SubtleStyle.Render(q.Context))
		}
		for _, opt := range q.Options {
			line := "   - " + opt.Label
			if opt.DutyRate != "" {
				line += fmt.Sprintf(" (duty %s)", opt.DutyRate)
			}
			fmt.Fprintln(out, line)
		}
	}
}

func printAnswers(cmd *cobra.Command, answers []cli.Answer) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, cli.FormatTitle("Answers"))
	for _, a := range answers {
		switch {
		case a.Skipped:
			fmt.Fprintf(out, "  %s skipped\n", a.QuestionID)
		case a.Selected != nil:
			fmt.Fprintf(out, "  %s → %s\n", a.QuestionID, a.Selected.Label)
		default:
			fmt.Fprintf(out, "  %s → %s\n", a.QuestionID, a.FreeText)
		}
	}
}
