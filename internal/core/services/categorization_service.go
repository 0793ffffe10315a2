package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/categorization"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/utils/batch"
	"github.com/SscSPs/spend_ledger/internal/utils/pagination"
	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	defaultPreviewLimit = 20
	maxPreviewLimit     = 100

	defaultResolveAttempts = 3
	resolveRetryDelay      = 20 * time.Millisecond
)

// categorizationService implements portssvc.CategorizationSvcFacade
type categorizationService struct {
	BaseService
	classifier      *categorization.Classifier
	txRepo          portsrepo.TransactionRepositoryFacade
	categoryRepo    portsrepo.CategoryRepositoryFacade
	batchSize       int
	resolveAttempts uint
}

// CategorizationServiceOption is a functional option for configuring the categorization service
type CategorizationServiceOption func(*categorizationService)

// WithCategorizationBatchSize sets how many updates are issued concurrently per batch.
func WithCategorizationBatchSize(size int) CategorizationServiceOption {
	return func(s *categorizationService) {
		s.batchSize = size
	}
}

// WithResolveAttempts sets how many times a category lookup-or-create is tried
// when it races with a concurrent creation of the same name. Zero keeps the default.
func WithResolveAttempts(attempts uint) CategorizationServiceOption {
	return func(s *categorizationService) {
		if attempts > 0 {
			s.resolveAttempts = attempts
		}
	}
}

// WithCategorizationClock overrides the time source used for audit fields.
func WithCategorizationClock(clock func() time.Time) CategorizationServiceOption {
	return func(s *categorizationService) {
		s.clock = clock
	}
}

// NewCategorizationService creates a new categorization service with the provided options
func NewCategorizationService(
	classifier *categorization.Classifier,
	txRepo portsrepo.TransactionRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	options ...CategorizationServiceOption,
) portssvc.CategorizationSvcFacade {
	svc := &categorizationService{
		classifier:      classifier,
		txRepo:          txRepo,
		categoryRepo:    categoryRepo,
		batchSize:       batch.DefaultSize,
		resolveAttempts: defaultResolveAttempts,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.CategorizationSvcFacade = (*categorizationService)(nil)

func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveCategory finds the category named name visible to userID or creates a user-owned one.
func (s *categorizationService) ResolveCategory(ctx context.Context, userID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}

	var categoryID string
	err := retry.Do(
		func() error {
			existing, err := s.categoryRepo.FindCategoryByName(ctx, userID, name)
			if err == nil {
				categoryID = existing.CategoryID
				return nil
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}

			owner := userID
			category := domain.Category{
				CategoryID:  uuid.NewString(),
				UserID:      &owner,
				Name:        name,
				AuditFields: domain.NewAuditFields(userID, s.Now()),
			}
			if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
				return err
			}
			categoryID = category.CategoryID
			s.LogInfo(ctx, "Category created on demand",
				slog.String("user_id", userID),
				slog.String("category_id", categoryID),
				slog.String("name", name))
			return nil
		},
		retry.RetryIf(func(err error) bool {
			// Another request created the same name between our lookup and insert.
			return errors.Is(err, apperrors.ErrDuplicate)
		}),
		retry.Attempts(s.resolveAttempts),
		retry.Delay(resolveRetryDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve category",
			slog.String("user_id", userID),
			slog.String("name", name))
		return "", fmt.Errorf("failed to resolve category '%s': %w", name, err)
	}
	return categoryID, nil
}

// ResolveCategories resolves every distinct name once.
func (s *categorizationService) ResolveCategories(ctx context.Context, userID string, names []string) (map[string]string, error) {
	resolved := make(map[string]string, len(names))
	for _, name := range names {
		key := categoryKey(name)
		if key == "" {
			continue
		}
		if _, done := resolved[key]; done {
			continue
		}
		id, err := s.ResolveCategory(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		resolved[key] = id
	}
	return resolved, nil
}

// Classify runs the keyword classifier on a single description.
func (s *categorizationService) Classify(ctx context.Context, description string) domain.Classification {
	return s.classifier.Classify(description)
}

func (s *categorizationService) classifyTransaction(t domain.Transaction) domain.Classification {
	c := s.classifier.Classify(t.Description)
	if !c.Matched && t.OriginalDescription != t.Description {
		c = s.classifier.Classify(t.OriginalDescription)
	}
	return c
}

// assign classifies txs in place. Categories are resolved for the whole slice
// before any row is touched.
func (s *categorizationService) assign(ctx context.Context, userID string, txs []domain.Transaction, minConfidence domain.Confidence, overwrite bool) ([]int, domain.CategorizationResult, error) {
	var stats domain.CategorizationResult
	if minConfidence != "" && !minConfidence.IsValid() {
		return nil, stats, fmt.Errorf("%w: unknown confidence '%s'", apperrors.ErrValidation, minConfidence)
	}

	type match struct {
		index int
		name  string
	}
	var matches []match
	var names []string

	for i := range txs {
		if !overwrite && !txs[i].IsUncategorized() {
			continue
		}
		stats.Processed++

		c := s.classifyTransaction(txs[i])
		if !c.Matched {
			continue
		}
		stats.Matched++
		if !c.Confidence.AtLeast(minConfidence) {
			stats.BelowConfidence++
			continue
		}
		matches = append(matches, match{index: i, name: c.CategoryName})
		names = append(names, c.CategoryName)
	}

	if len(matches) == 0 {
		return nil, stats, nil
	}

	ids, err := s.ResolveCategories(ctx, userID, names)
	if err != nil {
		return nil, stats, err
	}
	stats.CategoriesResolved = len(ids)

	changed := make([]int, 0, len(matches))
	for _, m := range matches {
		id := ids[categoryKey(m.name)]
		current := txs[m.index].CategoryID
		if current != nil && *current == id {
			continue
		}
		txs[m.index].CategoryID = &id
		changed = append(changed, m.index)
	}
	return changed, stats, nil
}

// AssignCategories classifies txs in place and returns the indexes it changed.
func (s *categorizationService) AssignCategories(ctx context.Context, userID string, txs []domain.Transaction, minConfidence domain.Confidence, overwrite bool) ([]int, error) {
	changed, _, err := s.assign(ctx, userID, txs, minConfidence, overwrite)
	return changed, err
}

// CategorizeAll classifies every (or every uncategorized) transaction of a user and
// writes the new categories in batches.
func (s *categorizationService) CategorizeAll(ctx context.Context, userID string, minConfidence domain.Confidence, overwrite bool) (*domain.CategorizationResult, error) {
	txs, err := s.txRepo.FindTransactions(ctx, domain.TransactionFilter{UserID: userID, UncategorizedOnly: !overwrite})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for categorization", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	changed, stats, err := s.assign(ctx, userID, txs, minConfidence, overwrite)
	if err != nil {
		return nil, err
	}

	res, err := batch.Run(ctx, changed, s.batchSize, func(ctx context.Context, idx int) error {
		return s.txRepo.UpdateTransactionCategory(ctx, userID, txs[idx].TransactionID, *txs[idx].CategoryID)
	})
	stats.Updated = res.Succeeded
	if err != nil {
		s.LogError(ctx, err, "Categorization stopped after a failed batch",
			slog.String("user_id", userID),
			slog.Int("updated", res.Succeeded),
			slog.Int("pending", len(changed)))
		return &stats, fmt.Errorf("categorized %d of %d transactions: %w", res.Succeeded, len(changed), err)
	}

	s.LogInfo(ctx, "Categorization finished",
		slog.String("user_id", userID),
		slog.Int("processed", stats.Processed),
		slog.Int("matched", stats.Matched),
		slog.Int("updated", stats.Updated),
		slog.Int("below_confidence", stats.BelowConfidence))
	return &stats, nil
}

// SuggestPatterns mines prefix clusters from the user's uncategorized descriptions.
func (s *categorizationService) SuggestPatterns(ctx context.Context, userID string) ([]domain.PatternCandidate, error) {
	descriptions, err := s.txRepo.ListUncategorizedDescriptions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list uncategorized descriptions", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list uncategorized descriptions: %w", err)
	}

	candidates := categorization.MinePatterns(descriptions)
	s.LogDebug(ctx, "Patterns mined",
		slog.String("user_id", userID),
		slog.Int("descriptions", len(descriptions)),
		slog.Int("candidates", len(candidates)))
	return candidates, nil
}

func validatePatternQuery(q *domain.PatternQuery) error {
	q.Prefix = strings.TrimSpace(q.Prefix)
	if q.UserID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if q.Prefix == "" {
		return fmt.Errorf("%w: prefix is required", apperrors.ErrValidation)
	}
	return nil
}

// PreviewPattern returns one page of matches plus the total count and amount of all matches.
func (s *categorizationService) PreviewPattern(ctx context.Context, q domain.PatternQuery, limit int, nextToken *string) (*domain.PatternPreview, error) {
	if err := validatePatternQuery(&q); err != nil {
		return nil, err
	}
	if nextToken != nil {
		if _, err := pagination.DecodeToken(*nextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	limit = pagination.ParseLimit(limit, defaultPreviewLimit, maxPreviewLimit)

	var (
		page  []domain.Transaction
		next  *string
		count int
		total decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, next, err = s.txRepo.ListByDescriptionPrefix(gctx, q, limit, nextToken)
		return err
	})
	g.Go(func() error {
		var err error
		count, total, err = s.txRepo.SummarizeDescriptionPrefix(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to preview pattern",
			slog.String("user_id", q.UserID),
			slog.String("prefix", q.Prefix))
		return nil, fmt.Errorf("failed to preview pattern: %w", err)
	}

	return &domain.PatternPreview{
		Transactions: page,
		TotalCount:   count,
		TotalAmount:  total,
		NextToken:    next,
	}, nil
}

// ApplyPattern assigns categoryID to every transaction matching the prefix.
func (s *categorizationService) ApplyPattern(ctx context.Context, q domain.PatternQuery, categoryID string) (*domain.PatternApplyResult, error) {
	if err := validatePatternQuery(&q); err != nil {
		return nil, err
	}
	if categoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !category.VisibleTo(q.UserID) {
		return nil, apperrors.ErrForbidden
	}

	ids, err := s.txRepo.ListIDsByDescriptionPrefix(ctx, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pattern matches", slog.String("prefix", q.Prefix))
		return nil, fmt.Errorf("failed to list pattern matches: %w", err)
	}

	res, err := batch.Run(ctx, ids, s.batchSize, func(ctx context.Context, id string) error {
		return s.txRepo.UpdateTransactionCategory(ctx, q.UserID, id, categoryID)
	})
	result := &domain.PatternApplyResult{Matched: len(ids), Updated: res.Succeeded}
	if err != nil {
		s.LogError(ctx, err, "Pattern application stopped after a failed batch",
			slog.String("prefix", q.Prefix),
			slog.Int("updated", res.Succeeded),
			slog.Int("matched", len(ids)))
		return result, fmt.Errorf("applied pattern to %d of %d transactions: %w", res.Succeeded, len(ids), err)
	}

	s.LogInfo(ctx, "Pattern applied",
		slog.String("user_id", q.UserID),
		slog.String("prefix", q.Prefix),
		slog.String("category_id", categoryID),
		slog.Int("updated", res.Succeeded))
	return result, nil
}
