package ingestion

import (
	"regexp"
	"strconv"
)

// Matches "2/12", "02\12" and "PARCELA 02/12".
var installmentPattern = regexp.MustCompile(`(?i)(?:PARCELA\s+)?(\d{1,2})[/\\](\d{1,2})`)

// Installment is a "current of total" marker.
type Installment struct {
	Current int
	Total   int
}

// ValidInstallment reports whether current/total is a real installment pair
// rather than a date fragment or a single payment.
func ValidInstallment(current, total int) bool {
	return total > 1 && current <= total
}

// ParseInstallment looks for an installment marker in a single description.
func ParseInstallment(description string) (Installment, bool) {
	m := installmentPattern.FindStringSubmatch(description)
	if m == nil {
		return Installment{}, false
	}

	current, err := strconv.Atoi(m[1])
	if err != nil {
		return Installment{}, false
	}
	total, err := strconv.Atoi(m[2])
	if err != nil {
		return Installment{}, false
	}

	if !ValidInstallment(current, total) {
		return Installment{}, false
	}
	return Installment{Current: current, Total: total}, true
}

// ExtractInstallment prefers the bank's original text and only looks at the
// cleaned description when no original is available.
func ExtractInstallment(original, cleaned string) (Installment, bool) {
	if original != "" {
		return ParseInstallment(original)
	}
	return ParseInstallment(cleaned)
}
