package services

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// CategoryResolver turns category names into durable category ids.
type CategoryResolver interface {
	// ResolveCategory returns the id of the category named name visible to userID,
	// creating a user-owned one when none exists.
	ResolveCategory(ctx context.Context, userID, name string) (string, error)

	// ResolveCategories resolves each distinct name once. The map is keyed by lower-cased name.
	ResolveCategories(ctx context.Context, userID string, names []string) (map[string]string, error)
}

// ClassificationSvc runs the keyword classifier.
type ClassificationSvc interface {
	Classify(ctx context.Context, description string) domain.Classification

	// AssignCategories classifies txs in place, setting CategoryID on each row whose match
	// meets minConfidence. Rows that already have a category are left alone unless overwrite is set.
	// It returns the indexes of the rows it changed.
	AssignCategories(ctx context.Context, userID string, txs []domain.Transaction, minConfidence domain.Confidence, overwrite bool) ([]int, error)

	// CategorizeAll classifies and updates every transaction of userID.
	CategorizeAll(ctx context.Context, userID string, minConfidence domain.Confidence, overwrite bool) (*domain.CategorizationResult, error)
}

// PatternSvc drives human-approved bulk categorization.
type PatternSvc interface {
	SuggestPatterns(ctx context.Context, userID string) ([]domain.PatternCandidate, error)
	PreviewPattern(ctx context.Context, q domain.PatternQuery, limit int, nextToken *string) (*domain.PatternPreview, error)
	ApplyPattern(ctx context.Context, q domain.PatternQuery, categoryID string) (*domain.PatternApplyResult, error)
}

// CategorizationSvcFacade combines all categorization service interfaces.
type CategorizationSvcFacade interface {
	CategoryResolver
	ClassificationSvc
	PatternSvc
}
