// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Confidence anchors for qualitative labels supplied by the upstream
// classifier. Labels arrive in English or Hebrew.
const (
	ConfidenceHigh    = 85.0
	ConfidenceMedium  = 60.0
	ConfidenceLow     = 35.0
	ConfidenceUnknown = 50.0
)

// Candidate is a proposed HS classification for an imported item.
// Confidence is always numeric (0-100) after construction; qualitative
// labels are normalized via ParseConfidence.
type Candidate struct {
	Code        string
	Description string
	DutyRate    string
	Confidence  float64

	// Enrichment fields populated by the source verifier.
	VerificationStatus  VerificationStatus
	VerificationSources []string
	DutySource          string
	OfficialDescription string
	PurchaseTax         *PurchaseTax
	VATRate             float64
	Requirements        []string
}

// Validate ensures the candidate carries the minimum data the pipeline needs.
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.Code) == "" {
		return fmt.Errorf("candidate code is required")
	}
	if c.Confidence < 0 || c.Confidence > 100 {
		return fmt.Errorf("confidence must be between 0 and 100, got %.1f", c.Confidence)
	}
	return nil
}

// Chapter returns the candidate's 2-digit HS chapter.
func (c *Candidate) Chapter() string {
	return NormalizeCode(c.Code).Chapter
}

// ParseConfidence normalizes a confidence value from the upstream classifier.
// Accepts numerics, numeric strings, and qualitative labels (English or
// Hebrew). Unknown labels map to the neutral anchor.
func ParseConfidence(v any) float64 {
	switch val := v.(type) {
	case float64:
		return clampConfidence(val)
	case float32:
		return clampConfidence(float64(val))
	case int:
		return clampConfidence(float64(val))
	case int64:
		return clampConfidence(float64(val))
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return clampConfidence(n)
		}
		switch strings.ToLower(s) {
		case "high", "גבוהה":
			return ConfidenceHigh
		case "medium", "בינונית":
			return ConfidenceMedium
		case "low", "נמוכה":
			return ConfidenceLow
		default:
			return ConfidenceUnknown
		}
	case nil:
		return ConfidenceUnknown
	default:
		return ConfidenceUnknown
	}
}

func clampConfidence(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// NormalizedCode is an HS code stripped of separators, with its derived
// chapter (2 digits) and heading (4 digits). Derived on demand, never stored.
type NormalizedCode struct {
	Full    string
	Chapter string
	Heading string
}

// NormalizeCode strips separators from an HS code and derives chapter and
// heading. A code shorter than two digits is zero-padded on the left.
func NormalizeCode(raw string) NormalizedCode {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	full := b.String()

	chapter := full
	if len(chapter) >= 2 {
		chapter = chapter[:2]
	} else {
		chapter = strings.Repeat("0", 2-len(chapter)) + chapter
	}

	heading := full
	if len(heading) > 4 {
		heading = heading[:4]
	}

	return NormalizedCode{Full: full, Chapter: chapter, Heading: heading}
}

// Dotted renders the code in the tariff book's 4-2-4 grouping
// (e.g. 8471301000 -> 8471.30.1000). Codes of six digits or fewer keep a
// single separator after the heading.
func (n NormalizedCode) Dotted() string {
	if len(n.Full) <= 4 {
		return n.Full
	}
	if len(n.Full) <= 6 {
		return n.Full[:4] + "." + n.Full[4:]
	}
	return n.Full[:4] + "." + n.Full[4:6] + "." + n.Full[6:]
}
