package dto

import (
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClassifyRequest asks for the category of one description.
type ClassifyRequest struct {
	Description string `json:"description" binding:"required"`
}

// CategorizeRunRequest controls a categorize-all run.
type CategorizeRunRequest struct {
	MinConfidence domain.Confidence `json:"minConfidence" binding:"omitempty,oneof=high medium low"`
	Overwrite     bool              `json:"overwrite"`
}

// PatternPreviewRequest selects one page of prefix matches.
type PatternPreviewRequest struct {
	Prefix             string  `json:"prefix" binding:"required"`
	IncludeCategorized bool    `json:"includeCategorized"`
	Limit              int     `json:"limit" binding:"omitempty,min=1,max=100"`
	NextToken          *string `json:"nextToken"`
}

// PatternApplyRequest assigns a category to every prefix match.
type PatternApplyRequest struct {
	Prefix             string `json:"prefix" binding:"required"`
	CategoryID         string `json:"categoryID" binding:"required"`
	IncludeCategorized bool   `json:"includeCategorized"`
}

// PatternPreviewResponse is one page of prefix matches.
type PatternPreviewResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	TotalCount   int                   `json:"totalCount"`
	TotalAmount  decimal.Decimal       `json:"totalAmount"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToPatternPreviewResponse converts a domain.PatternPreview.
func ToPatternPreviewResponse(p *domain.PatternPreview) PatternPreviewResponse {
	return PatternPreviewResponse{
		Transactions: ToTransactionResponses(p.Transactions),
		TotalCount:   p.TotalCount,
		TotalAmount:  p.TotalAmount,
		NextToken:    p.NextToken,
	}
}
