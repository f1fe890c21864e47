package common

import (
	"regexp"
	"strconv"
)

var percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// ParsePercent extracts the first percentage number from free-form duty-rate
// text (e.g. "12% + purchase tax" -> 12). The second return is false when no
// percentage is present; callers decide whether that means zero or "exclude
// from the computation".
func ParsePercent(text string) (float64, bool) {
	m := percentRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
