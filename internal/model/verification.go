package model

import (
	"fmt"
	"time"
)

// VerificationStatus is the trust level assigned to a classification after
// the source cascade runs. The ordering is significant: when results from
// multiple sources are merged, the higher-ranked status wins.
type VerificationStatus string

// Verification status constants, in ascending order of trust.
const (
	StatusError      VerificationStatus = "error"
	StatusUnverified VerificationStatus = "unverified"
	StatusPartial    VerificationStatus = "partial"
	StatusVerified   VerificationStatus = "verified"
	StatusOfficial   VerificationStatus = "official"
)

// Rank returns the status's position in the trust ordering. StatusError
// ranks below everything so a failed item never wins a merge.
func (s VerificationStatus) Rank() int {
	switch s {
	case StatusError:
		return -1
	case StatusUnverified:
		return 0
	case StatusPartial:
		return 1
	case StatusVerified:
		return 2
	case StatusOfficial:
		return 3
	default:
		return 0
	}
}

// Validate checks the status is one of the known values.
func (s VerificationStatus) Validate() error {
	switch s {
	case StatusError, StatusUnverified, StatusPartial, StatusVerified, StatusOfficial:
		return nil
	default:
		return fmt.Errorf("unknown verification status %q", string(s))
	}
}

// PurchaseTax describes the purchase-tax obligation derived for a
// chapter/heading. Rate is display text; the tables are not numeric.
type PurchaseTax struct {
	Applies  bool
	Rate     string
	Note     string
	Category string
}

// VerificationResult is the outcome of running one code through the source
// cascade. Written once per lookup, then served from cache.
type VerificationResult struct {
	Code                string             `json:"code"`
	Chapter             string             `json:"chapter"`
	Verified            bool               `json:"verified"`
	Status              VerificationStatus `json:"status"`
	Sources             []string           `json:"sources"`
	ExactMatch          bool               `json:"exact_match"`
	DutyRate            string             `json:"duty_rate"`
	DutySource          string             `json:"duty_source"`
	PurchaseTax         PurchaseTax        `json:"purchase_tax"`
	VATRate             float64            `json:"vat_rate"`
	OfficialDescription string             `json:"official_description"`
	Requirements        []string           `json:"requirements"`
	CachedAt            time.Time          `json:"cached_at"`

	// Annotations added on a cache hit; never persisted.
	FromCache    bool `json:"-"`
	CacheAgeDays int  `json:"-"`
}

// HasSource reports whether the named source contributed to this result.
func (r *VerificationResult) HasSource(name string) bool {
	for _, s := range r.Sources {
		if s == name {
			return true
		}
	}
	return false
}
