package mapping

import (
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/SscSPs/spend_ledger/internal/models"
)

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}

func toIntPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:       d.TransactionID,
		UserID:              d.UserID,
		StatementID:         d.StatementID,
		Date:                d.Date,
		PostDate:            d.PostDate,
		OriginalDescription: d.OriginalDescription,
		Description:         d.Description,
		Amount:              d.Amount,
		TransactionType:     models.TransactionType(d.Type),
		InstallmentCurrent:  toInt32Ptr(d.InstallmentCurrent),
		InstallmentTotal:    toInt32Ptr(d.InstallmentTotal),
		IsInternational:     d.IsInternational,
		Fingerprint:         d.Fingerprint,
		CategoryID:          d.CategoryID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:       m.TransactionID,
		UserID:              m.UserID,
		StatementID:         m.StatementID,
		Date:                m.Date,
		PostDate:            m.PostDate,
		OriginalDescription: m.OriginalDescription,
		Description:         m.Description,
		Amount:              m.Amount,
		Type:                domain.TransactionType(m.TransactionType),
		InstallmentCurrent:  toIntPtr(m.InstallmentCurrent),
		InstallmentTotal:    toIntPtr(m.InstallmentTotal),
		IsInternational:     m.IsInternational,
		Fingerprint:         m.Fingerprint,
		CategoryID:          m.CategoryID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to a slice of domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
