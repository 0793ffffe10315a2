package categorization

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinPatternCount      = 2
	MaxPatternCandidates = 50
	maxPatternExamples   = 3

	minTokenPrefixLen = 2
	fixedPrefixLen    = 6
	minFixedPrefixLen = 3
)

// Leading alphanumeric run ending at a space or '*', as in "UBER *TRIP" or "IFOOD RESTAURANTE".
var tokenPrefixPattern = regexp.MustCompile(`^([\p{L}\p{N}]+)[ *]`)

// PatternPrefix returns the cluster key for a description.
// The leading token wins when it is long enough; otherwise the first six
// characters are used. Descriptions yielding neither are skipped.
// Surrounding whitespace is trimmed first, so "  UBER *TRIP" clusters with
// "UBER *TRIP" instead of falling through to the fixed-length rule. Ingested
// descriptions are already trimmed, so this only matters for raw input.
func PatternPrefix(description string) (string, bool) {
	upper := cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(description))
	if upper == "" {
		return "", false
	}

	if m := tokenPrefixPattern.FindStringSubmatch(upper); m != nil {
		if utf8.RuneCountInString(m[1]) >= minTokenPrefixLen {
			return m[1], true
		}
	}

	r := []rune(upper)
	if len(r) > fixedPrefixLen {
		r = r[:fixedPrefixLen]
	}
	prefix := strings.TrimRight(string(r), " \t")
	if utf8.RuneCountInString(prefix) < minFixedPrefixLen {
		return "", false
	}
	return prefix, true
}

type patternBucket struct {
	candidate domain.PatternCandidate
	seen      map[string]struct{}
	order     int
}

// MinePatterns clusters descriptions by prefix and returns the candidates seen
// at least MinPatternCount times, most frequent first, capped at MaxPatternCandidates.
func MinePatterns(descriptions []string) []domain.PatternCandidate {
	buckets := make(map[string]*patternBucket)
	for _, d := range descriptions {
		prefix, ok := PatternPrefix(d)
		if !ok {
			continue
		}

		b, exists := buckets[prefix]
		if !exists {
			b = &patternBucket{
				candidate: domain.PatternCandidate{Prefix: prefix},
				seen:      make(map[string]struct{}),
				order:     len(buckets),
			}
			buckets[prefix] = b
		}

		b.candidate.Count++
		if len(b.candidate.Examples) < maxPatternExamples {
			if _, dup := b.seen[d]; !dup {
				b.seen[d] = struct{}{}
				b.candidate.Examples = append(b.candidate.Examples, d)
			}
		}
	}

	kept := make([]*patternBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.candidate.Count >= MinPatternCount {
			kept = append(kept, b)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].candidate.Count != kept[j].candidate.Count {
			return kept[i].candidate.Count > kept[j].candidate.Count
		}
		return kept[i].order < kept[j].order
	})

	if len(kept) > MaxPatternCandidates {
		kept = kept[:MaxPatternCandidates]
	}

	out := make([]domain.PatternCandidate, len(kept))
	for i, b := range kept {
		out[i] = b.candidate
	}
	return out
}
