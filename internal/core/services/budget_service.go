package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/analytics"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/utils/batch"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// budgetService implements portssvc.BudgetSvcFacade
type budgetService struct {
	BaseService
	budgetRepo   portsrepo.BudgetRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	txRepo       portsrepo.TransactionReader
	batchSize    int
}

// BudgetServiceOption is a functional option for configuring the budget service
type BudgetServiceOption func(*budgetService)

// WithBudgetBatchSize sets how many upserts run concurrently per batch.
func WithBudgetBatchSize(size int) BudgetServiceOption {
	return func(s *budgetService) {
		s.batchSize = size
	}
}

// WithBudgetClock overrides the time source used for audit fields.
func WithBudgetClock(clock func() time.Time) BudgetServiceOption {
	return func(s *budgetService) {
		s.clock = clock
	}
}

// NewBudgetService creates a new budget service with the provided options
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	txRepo portsrepo.TransactionReader,
	options ...BudgetServiceOption,
) portssvc.BudgetSvcFacade {
	svc := &budgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		batchSize:    batch.DefaultSize,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

func (s *budgetService) validateInput(ctx context.Context, userID string, in domain.BudgetInput) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if in.CategoryID == "" {
		return fmt.Errorf("%w: category id is required", apperrors.ErrValidation)
	}
	if !in.MonthlyLimit.IsPositive() {
		return fmt.Errorf("%w: monthly limit must be greater than zero", apperrors.ErrValidation)
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s not found", apperrors.ErrValidation, in.CategoryID)
		}
		return err
	}
	if !category.VisibleTo(userID) {
		return apperrors.ErrForbidden
	}
	return nil
}

// UpsertBudget creates or replaces the user's budget for a category.
func (s *budgetService) UpsertBudget(ctx context.Context, userID string, in domain.BudgetInput) (*domain.Budget, error) {
	if err := s.validateInput(ctx, userID, in); err != nil {
		s.LogDebug(ctx, "Rejected budget", slog.String("user_id", userID), slog.String("reason", err.Error()))
		return nil, err
	}

	now := s.Now()
	stored, err := s.budgetRepo.UpsertBudget(ctx, domain.Budget{
		BudgetID:     uuid.NewString(),
		UserID:       userID,
		CategoryID:   in.CategoryID,
		MonthlyLimit: in.MonthlyLimit,
		AlertAt80:    in.AlertAt80,
		AlertAt100:   in.AlertAt100,
		IsActive:     in.IsActive,
		AuditFields:  domain.NewAuditFields(userID, now),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to upsert budget",
			slog.String("user_id", userID),
			slog.String("category_id", in.CategoryID))
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	s.LogInfo(ctx, "Budget saved",
		slog.String("budget_id", stored.BudgetID),
		slog.String("category_id", stored.CategoryID),
		slog.String("limit", stored.MonthlyLimit.String()))
	return stored, nil
}

// ApplyBudgets validates every input and then upserts them in batches.
func (s *budgetService) ApplyBudgets(ctx context.Context, userID string, in []domain.BudgetInput) (*domain.BulkBudgetResult, error) {
	seen := make(map[string]struct{}, len(in))
	for i, b := range in {
		if _, dup := seen[b.CategoryID]; dup {
			return nil, fmt.Errorf("%w: budget %d repeats category %s", apperrors.ErrValidation, i, b.CategoryID)
		}
		seen[b.CategoryID] = struct{}{}
		if err := s.validateInput(ctx, userID, b); err != nil {
			return nil, fmt.Errorf("budget %d: %w", i, err)
		}
	}

	res, err := batch.Run(ctx, in, s.batchSize, func(ctx context.Context, b domain.BudgetInput) error {
		_, err := s.budgetRepo.UpsertBudget(ctx, domain.Budget{
			BudgetID:     uuid.NewString(),
			UserID:       userID,
			CategoryID:   b.CategoryID,
			MonthlyLimit: b.MonthlyLimit,
			AlertAt80:    b.AlertAt80,
			AlertAt100:   b.AlertAt100,
			IsActive:     b.IsActive,
			AuditFields:  domain.NewAuditFields(userID, s.Now()),
		})
		return err
	})
	result := &domain.BulkBudgetResult{Requested: len(in), Applied: res.Succeeded}
	if err != nil {
		s.LogError(ctx, err, "Bulk budget application stopped after a failed batch",
			slog.String("user_id", userID),
			slog.Int("applied", res.Succeeded))
		return result, fmt.Errorf("applied %d of %d budgets: %w", res.Succeeded, len(in), err)
	}

	s.LogInfo(ctx, "Budgets applied", slog.String("user_id", userID), slog.Int("count", res.Succeeded))
	return result, nil
}

// DeleteBudget removes a budget owned by userID.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	existing, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		s.LogInfo(ctx, "Refused to delete budget owned by another user",
			slog.String("user_id", userID),
			slog.String("budget_id", budgetID))
		return apperrors.ErrForbidden
	}

	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		s.LogError(ctx, err, "Failed to delete budget", slog.String("budget_id", budgetID))
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// ListBudgets returns every budget of userID.
func (s *budgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// MonthPeriod returns the calendar month containing t, in UTC.
func MonthPeriod(t time.Time) domain.Period {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return domain.Period{From: start, To: start.AddDate(0, 1, 0)}
}

// BudgetStatus evaluates active budgets against the month's debit totals. It never writes.
func (s *budgetService) BudgetStatus(ctx context.Context, userID string, month time.Time) ([]domain.BudgetStatus, error) {
	budgets, err := s.budgetRepo.ListBudgets(ctx, userID, true)
	if err != nil {
		s.LogError(ctx, err, "Failed to list budgets", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return []domain.BudgetStatus{}, nil
	}

	period := MonthPeriod(month)
	byCategory, err := s.txRepo.SumDebitsByCategory(ctx, userID, period)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate debits by category",
			slog.String("user_id", userID),
			slog.String("month", period.From.Format("2006-01")))
		return nil, fmt.Errorf("failed to aggregate spending: %w", err)
	}

	spent := make(map[string]decimal.Decimal, len(byCategory))
	names := make(map[string]string, len(byCategory))
	for _, row := range byCategory {
		if row.CategoryID == nil {
			continue
		}
		spent[*row.CategoryID] = row.Total
		names[*row.CategoryID] = row.CategoryName
	}

	missing := false
	for _, b := range budgets {
		if _, ok := names[b.CategoryID]; !ok {
			missing = true
			break
		}
	}
	if missing {
		categories, err := s.categoryRepo.ListCategories(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		for _, c := range categories {
			if _, ok := names[c.CategoryID]; !ok {
				names[c.CategoryID] = c.Name
			}
		}
	}

	return analytics.EvaluateBudgets(budgets, spent, names), nil
}
