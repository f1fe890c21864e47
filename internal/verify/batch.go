package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/model"
)

// ProgressFunc reports batch progress after each item.
type ProgressFunc func(done, total int)

// VerifyAll verifies a batch of candidates and merges the enrichment onto
// each one. One item's failure never blocks or invalidates its siblings:
// the failed item is marked StatusError and the batch continues.
//
// A per-call memo avoids re-querying a code that appears more than once in
// the same batch; the memo is discarded when the call returns.
func (v *Verifier) VerifyAll(ctx context.Context, candidates []model.Candidate) []model.Candidate {
	return v.VerifyAllProgress(ctx, candidates, nil)
}

// VerifyAllProgress is VerifyAll with a progress callback.
func (v *Verifier) VerifyAllProgress(ctx context.Context, candidates []model.Candidate, progress ProgressFunc) []model.Candidate {
	out := make([]model.Candidate, len(candidates))
	memo := make(map[string]model.VerificationResult, len(candidates))

	for i, candidate := range candidates {
		out[i] = candidate

		result, err := v.verifyOne(ctx, candidate.Code, memo)
		if err != nil {
			slog.Error("Candidate verification failed",
				"code", candidate.Code,
				"error", err)
			out[i].VerificationStatus = model.StatusError
		} else {
			v.enrich(&out[i], result)
			v.recordKnowledge(ctx, &out[i], result)
		}

		if progress != nil {
			progress(i+1, len(candidates))
		}
	}

	return out
}

// verifyOne runs a single code through Verify with panic isolation, so an
// unexpected failure in one item surfaces as that item's error only.
func (v *Verifier) verifyOne(ctx context.Context, code string, memo map[string]model.VerificationResult) (result model.VerificationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("verification panicked: %v", r)
		}
	}()

	n := model.NormalizeCode(code)
	if n.Full == "" {
		return model.VerificationResult{}, fmt.Errorf("candidate code %q has no digits", code)
	}

	if cached, ok := memo[n.Full]; ok {
		return cached, nil
	}

	result = v.Verify(ctx, code, nil)
	memo[n.Full] = result
	return result, nil
}

// enrich merges a verification result onto a candidate. Duty rate and
// description are only replaced when the candidate lacked one or the
// result came from the highest-authority reference collection.
func (v *Verifier) enrich(c *model.Candidate, r model.VerificationResult) {
	c.VerificationStatus = r.Status
	c.VerificationSources = r.Sources
	c.OfficialDescription = r.OfficialDescription
	c.Requirements = r.Requirements
	c.VATRate = r.VATRate
	pt := r.PurchaseTax
	c.PurchaseTax = &pt

	topCollection := ""
	if cols := v.deps.Tariff.Collections(); len(cols) > 0 {
		topCollection = cols[0]
	}

	if r.DutyRate != "" && (c.DutyRate == "" || r.DutySource == topCollection) {
		c.DutyRate = r.DutyRate
		c.DutySource = r.DutySource
	}
	if r.OfficialDescription != "" && c.Description == "" {
		c.Description = r.OfficialDescription
	}
}

// recordKnowledge feeds verified enrichments to the learning store,
// best-effort.
func (v *Verifier) recordKnowledge(ctx context.Context, c *model.Candidate, r model.VerificationResult) {
	if v.deps.Knowledge == nil || !r.Verified || c.Description == "" {
		return
	}
	if err := v.deps.Knowledge.Record(ctx, r.Code, c.Description, r); err != nil {
		slog.Warn("Knowledge store write failed", "code", r.Code, "error", err)
	}
}
