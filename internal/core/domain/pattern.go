package domain

import "github.com/shopspring/decimal"

// PatternCandidate is a mined description prefix shared by uncategorized transactions.
// Candidates are computed per request and never stored.
type PatternCandidate struct {
	Prefix   string   `json:"prefix"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// PatternQuery selects the transactions a prefix applies to.
type PatternQuery struct {
	UserID             string
	Prefix             string
	IncludeCategorized bool
}

// PatternPreview is one page of matches plus totals over every match.
type PatternPreview struct {
	Transactions []Transaction   `json:"transactions"`
	TotalCount   int             `json:"totalCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	NextToken    *string         `json:"nextToken,omitempty"`
}

// PatternApplyResult reports a bulk category assignment.
type PatternApplyResult struct {
	Matched int `json:"matched"`
	Updated int `json:"updated"`
}
