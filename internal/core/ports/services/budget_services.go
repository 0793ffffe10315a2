package services

import (
	"context"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// BudgetWriterSvc defines budget mutations.
type BudgetWriterSvc interface {
	UpsertBudget(ctx context.Context, userID string, in domain.BudgetInput) (*domain.Budget, error)
	ApplyBudgets(ctx context.Context, userID string, in []domain.BudgetInput) (*domain.BulkBudgetResult, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// BudgetReaderSvc defines budget queries.
type BudgetReaderSvc interface {
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)

	// BudgetStatus evaluates the user's active budgets for the calendar month containing month.
	BudgetStatus(ctx context.Context, userID string, month time.Time) ([]domain.BudgetStatus, error)
}

// BudgetSvcFacade combines all budget service interfaces.
type BudgetSvcFacade interface {
	BudgetWriterSvc
	BudgetReaderSvc
}
