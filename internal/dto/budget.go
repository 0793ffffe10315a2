package dto

import (
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertBudgetRequest creates or replaces the budget of one category.
// Pointers distinguish omitted flags from explicit false.
type UpsertBudgetRequest struct {
	CategoryID   string          `json:"categoryID" binding:"required"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
	AlertAt80    *bool           `json:"alertAt80"`
	AlertAt100   *bool           `json:"alertAt100"`
	IsActive     *bool           `json:"isActive"`
}

// BulkBudgetRequest upserts many budgets at once.
type BulkBudgetRequest struct {
	Budgets []UpsertBudgetRequest `json:"budgets" binding:"required,min=1,dive"`
}

// BudgetStatusParams selects the evaluated month.
type BudgetStatusParams struct {
	Month string `form:"month"` // YYYY-MM, defaults to the current month
}

// BudgetResponse defines the data returned for a budget.
type BudgetResponse struct {
	BudgetID      string          `json:"budgetID"`
	CategoryID    string          `json:"categoryID"`
	MonthlyLimit  decimal.Decimal `json:"monthlyLimit"`
	AlertAt80     bool            `json:"alertAt80"`
	AlertAt100    bool            `json:"alertAt100"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// BudgetStatusResponse is one evaluated budget.
type BudgetStatusResponse struct {
	Budget       BudgetResponse     `json:"budget"`
	CategoryName string             `json:"categoryName"`
	Spent        decimal.Decimal    `json:"spent"`
	Remaining    decimal.Decimal    `json:"remaining"`
	Percentage   decimal.Decimal    `json:"percentage"`
	Status       domain.BudgetState `json:"status"`
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// ToBudgetInput converts a request, defaulting omitted flags to true.
func (r UpsertBudgetRequest) ToBudgetInput() domain.BudgetInput {
	return domain.BudgetInput{
		CategoryID:   r.CategoryID,
		MonthlyLimit: r.MonthlyLimit,
		AlertAt80:    boolOr(r.AlertAt80, true),
		AlertAt100:   boolOr(r.AlertAt100, true),
		IsActive:     boolOr(r.IsActive, true),
	}
}

// ToBudgetResponse converts a domain.Budget to BudgetResponse DTO.
func ToBudgetResponse(b domain.Budget) BudgetResponse {
	return BudgetResponse{
		BudgetID:      b.BudgetID,
		CategoryID:    b.CategoryID,
		MonthlyLimit:  b.MonthlyLimit,
		AlertAt80:     b.AlertAt80,
		AlertAt100:    b.AlertAt100,
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
		LastUpdatedAt: b.LastUpdatedAt,
	}
}

// ToBudgetStatusResponses converts evaluated budgets, keeping their order.
func ToBudgetStatusResponses(statuses []domain.BudgetStatus) []BudgetStatusResponse {
	res := make([]BudgetStatusResponse, len(statuses))
	for i, s := range statuses {
		res[i] = BudgetStatusResponse{
			Budget:       ToBudgetResponse(s.Budget),
			CategoryName: s.CategoryName,
			Spent:        s.Spent,
			Remaining:    s.Remaining,
			Percentage:   s.Percentage,
			Status:       s.Status,
		}
	}
	return res
}

// ToBudgetInputs converts every row of a bulk request.
func (r BulkBudgetRequest) ToBudgetInputs() []domain.BudgetInput {
	out := make([]domain.BudgetInput, len(r.Budgets))
	for i, b := range r.Budgets {
		out[i] = b.ToBudgetInput()
	}
	return out
}
