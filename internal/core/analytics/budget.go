package analytics

import (
	"sort"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	warningThreshold  = decimal.NewFromInt(80)
	exceededThreshold = decimal.NewFromInt(100)
)

// BudgetStateFor maps a spent percentage to its status.
func BudgetStateFor(percentage decimal.Decimal) domain.BudgetState {
	switch {
	case percentage.GreaterThanOrEqual(exceededThreshold):
		return domain.BudgetExceeded
	case percentage.GreaterThanOrEqual(warningThreshold):
		return domain.BudgetWarning
	default:
		return domain.BudgetOK
	}
}

// EvaluateBudget computes the status of one budget given what was spent in its category.
func EvaluateBudget(b domain.Budget, categoryName string, spent decimal.Decimal) domain.BudgetStatus {
	spent = spent.Abs()
	remaining := b.MonthlyLimit.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	pct := Ratio(spent, b.MonthlyLimit)

	return domain.BudgetStatus{
		Budget:       b,
		CategoryName: categoryName,
		Spent:        spent,
		Remaining:    remaining,
		Percentage:   pct,
		Status:       BudgetStateFor(pct),
	}
}

// EvaluateBudgets evaluates every active budget against per-category debit
// totals and orders the result by percentage, highest first.
// spentByCategory and categoryNames are keyed by category id.
func EvaluateBudgets(budgets []domain.Budget, spentByCategory map[string]decimal.Decimal, categoryNames map[string]string) []domain.BudgetStatus {
	statuses := make([]domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		statuses = append(statuses, EvaluateBudget(b, categoryNames[b.CategoryID], spentByCategory[b.CategoryID]))
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		if !statuses[i].Percentage.Equal(statuses[j].Percentage) {
			return statuses[i].Percentage.GreaterThan(statuses[j].Percentage)
		}
		return statuses[i].CategoryName < statuses[j].CategoryName
	})
	return statuses
}
