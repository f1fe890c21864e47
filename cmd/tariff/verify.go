package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/cli"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/config"
	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [codes...]",
		Short: "Verify HS codes against the tariff collections",
		Long: `Verify runs each HS code through the source cascade: the verification
cache, the tariff reference collections in priority order, and the free
import order. Results include the resolved duty rate, purchase tax, VAT
and any legal requirements.

Codes can be given as arguments or loaded from a JSON batch file.`,
		Example: `  tariff verify 8471.30.0000
  tariff verify 8471300000 8517.62.0000
  tariff verify --file candidates.json`,
		RunE: runVerify,
	}

	cmd.Flags().StringP("file", "f", "", "JSON file with candidate classifications")
	cmd.Flags().Bool("json", false, "print results as JSON")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	asJSON, _ := cmd.Flags().GetBool("json")

	var candidates []model.Candidate
	switch {
	case file != "":
		loaded, err := loadCandidates(file)
		if err != nil {
			return err
		}
		candidates = loaded
	case len(args) > 0:
		for _, code := range args {
			candidates = append(candidates, model.Candidate{Code: code, Confidence: model.ConfidenceUnknown})
		}
	default:
		return fmt.Errorf("provide HS codes as arguments or a batch file with --file")
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

	if asJSON {
		return printJSON(cmd.OutOrStdout(), verified)
	}

	for i := range verified {
		printCandidate(cmd, &verified[i])
	}
	return nil
}

func printCandidate(cmd *cobra.Command, c *model.Candidate) {
	out := cmd.OutOrStdout()
	dotted := model.NormalizeCode(c.Code).Dotted()

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s %s", cli.ShipIcon, dotted)))
	if c.Description != "" {
		fmt.Fprintf(out, "  Description: %s\n", c.Description)
	}
	if c.OfficialDescription != "" && c.OfficialDescription != c.Description {
		fmt.Fprintf(out, "  Official:    %s\n", c.OfficialDescription)
	}

	fmt.Fprintf(out, "  Status:      %s\n", formatStatus(c.VerificationStatus))
	if len(c.VerificationSources) > 0 {
		fmt.Fprintf(out, "  Sources:     %s\n", strings.Join(c.VerificationSources, ", "))
	}
	if c.DutyRate != "" {
		line := c.DutyRate
		if c.DutySource != "" {
			line += fmt.Sprintf(" (from %s)", c.DutySource)
		}
		fmt.Fprintf(out, "  Duty:        %s\n", line)
	}
	if c.PurchaseTax != nil && c.PurchaseTax.Applies {
		fmt.Fprintf(out, "  Purchase tax: %s — %s\n", c.PurchaseTax.Rate, c.PurchaseTax.Note)
	}
	if c.VATRate > 0 {
		fmt.Fprintf(out, "  VAT:         %.1f%%\n", c.VATRate)
	}
	for _, req := range c.Requirements {
		fmt.Fprintf(out, "  %s %s\n", cli.WarningIcon, req)
	}
	fmt.Fprintln(out)
}

func formatStatus(status model.VerificationStatus) string {
	switch status {
	case model.StatusOfficial:
		return cli.FormatSuccess("official")
	case model.StatusVerified:
		return cli.FormatSuccess("verified")
	case model.StatusPartial:
		return cli.FormatWarning("partial")
	case model.StatusError:
		return cli.FormatError("error")
	default:
		return cli.FormatWarning("unverified")
	}
}
