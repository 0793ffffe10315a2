package mapping

import (
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/SscSPs/spend_ledger/internal/models"
)

// ToModelBudget converts a domain Budget to a model Budget
func ToModelBudget(d domain.Budget) models.Budget {
	return models.Budget{
		BudgetID:     d.BudgetID,
		UserID:       d.UserID,
		CategoryID:   d.CategoryID,
		MonthlyLimit: d.MonthlyLimit,
		AlertAt80:    d.AlertAt80,
		AlertAt100:   d.AlertAt100,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudget converts a model Budget to a domain Budget
func ToDomainBudget(m models.Budget) domain.Budget {
	return domain.Budget{
		BudgetID:     m.BudgetID,
		UserID:       m.UserID,
		CategoryID:   m.CategoryID,
		MonthlyLimit: m.MonthlyLimit,
		AlertAt80:    m.AlertAt80,
		AlertAt100:   m.AlertAt100,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
