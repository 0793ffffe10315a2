package repositories

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// BudgetReader defines read operations for budgets.
type BudgetReader interface {
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error)
	ListBudgets(ctx context.Context, userID string, activeOnly bool) ([]domain.Budget, error)
}

// BudgetWriter defines write operations for budgets.
type BudgetWriter interface {
	// UpsertBudget inserts or updates the budget keyed by (user, category) and returns the stored row.
	UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, budgetID string) error
}

// BudgetRepositoryFacade combines all budget repository interfaces.
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
