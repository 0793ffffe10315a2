package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetState is the traffic-light status of a budget in a period.
type BudgetState string

const (
	BudgetOK       BudgetState = "ok"
	BudgetWarning  BudgetState = "warning"
	BudgetExceeded BudgetState = "exceeded"
)

// Budget is a monthly spending limit for one category. (UserID, CategoryID) is unique.
type Budget struct {
	BudgetID     string          `json:"budgetID"`
	UserID       string          `json:"userID"`
	CategoryID   string          `json:"categoryID"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
	AlertAt80    bool            `json:"alertAt80"`
	AlertAt100   bool            `json:"alertAt100"`
	IsActive     bool            `json:"isActive"`
	AuditFields
}

// BudgetInput is the caller-supplied part of a budget upsert.
type BudgetInput struct {
	CategoryID   string
	MonthlyLimit decimal.Decimal
	AlertAt80    bool
	AlertAt100   bool
	IsActive     bool
}

// BudgetStatus is the evaluated state of one budget.
type BudgetStatus struct {
	Budget       Budget          `json:"budget"`
	CategoryName string          `json:"categoryName"`
	Spent        decimal.Decimal `json:"spent"`
	Remaining    decimal.Decimal `json:"remaining"`
	Percentage   decimal.Decimal `json:"percentage"`
	Status       BudgetState     `json:"status"`
}

// BulkBudgetResult reports how many upserts of a bulk application went through.
type BulkBudgetResult struct {
	Requested int `json:"requested"`
	Applied   int `json:"applied"`
}
