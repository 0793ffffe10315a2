package models

import "github.com/shopspring/decimal"

// Budget is a row of the budgets table.
type Budget struct {
	BudgetID     string          `db:"budget_id"`
	UserID       string          `db:"user_id"`
	CategoryID   string          `db:"category_id"`
	MonthlyLimit decimal.Decimal `db:"monthly_limit"`
	AlertAt80    bool            `db:"alert_at_80"`
	AlertAt100   bool            `db:"alert_at_100"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}
