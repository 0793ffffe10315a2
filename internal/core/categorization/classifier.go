package categorization

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Keywords shorter than this are too likely to appear inside unrelated words.
const minHighConfidenceLen = 4

type keyword struct {
	text       string
	confidence domain.Confidence
}

type categoryKeywords struct {
	name     string
	keywords []keyword
}

// Classifier maps descriptions to category names using an ordered keyword table.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	categories []categoryKeywords
}

// NewClassifier compiles table into a Classifier.
func NewClassifier(table *RuleTable) (*Classifier, error) {
	if table == nil || len(table.Categories) == 0 {
		return nil, fmt.Errorf("rule table has no categories")
	}

	generic := make(map[string]struct{}, len(table.GenericKeywords))
	for _, g := range table.GenericKeywords {
		generic[Fold(g)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(table.Categories))
	c := &Classifier{categories: make([]categoryKeywords, 0, len(table.Categories))}
	for _, rule := range table.Categories {
		key := Fold(rule.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("category '%s' declared twice", rule.Name)
		}
		seen[key] = struct{}{}

		ck := categoryKeywords{name: rule.Name, keywords: make([]keyword, 0, len(rule.Keywords))}
		for _, kw := range rule.Keywords {
			text := Fold(kw)
			if text == "" {
				continue
			}
			ck.keywords = append(ck.keywords, keyword{text: text, confidence: keywordConfidence(text, generic)})
		}
		c.categories = append(c.categories, ck)
	}
	return c, nil
}

// keywordConfidence: brand and entity names are high, generic words are
// medium, and very short tokens are low.
func keywordConfidence(text string, generic map[string]struct{}) domain.Confidence {
	if _, ok := generic[text]; ok {
		return domain.ConfidenceMedium
	}
	if utf8.RuneCountInString(text) < minHighConfidenceLen {
		return domain.ConfidenceLow
	}
	return domain.ConfidenceHigh
}

// Classify returns the first category whose keyword occurs in description.
func (c *Classifier) Classify(description string) domain.Classification {
	text := Fold(description)
	if text == "" {
		return domain.Classification{}
	}

	for _, cat := range c.categories {
		for _, kw := range cat.keywords {
			if strings.Contains(text, kw.text) {
				return domain.Classification{
					CategoryName: cat.name,
					Keyword:      kw.text,
					Confidence:   kw.confidence,
					Matched:      true,
				}
			}
		}
	}
	return domain.Classification{}
}

// CategoryNames lists the table's categories in declaration order.
func (c *Classifier) CategoryNames() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.name
	}
	return names
}

// Fold lower-cases s and strips diacritics, so "FARMÁCIA" and "farmacia" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.TrimSpace(cases.Lower(language.BrazilianPortuguese).String(stripped))
}
