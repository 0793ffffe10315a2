package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger row as stored.
type TransactionType string

const (
	Debit    TransactionType = "DEBIT"
	Credit   TransactionType = "CREDIT"
	Transfer TransactionType = "TRANSFER"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID       string          `db:"transaction_id"`
	UserID              string          `db:"user_id"`
	StatementID         *string         `db:"statement_id"` // Nullable
	Date                time.Time       `db:"date"`
	PostDate            *time.Time      `db:"post_date"` // Nullable
	OriginalDescription string          `db:"original_description"`
	Description         string          `db:"description"`
	Amount              decimal.Decimal `db:"amount"` // Signed
	TransactionType     TransactionType `db:"transaction_type"`
	InstallmentCurrent  *int32          `db:"installment_current"`
	InstallmentTotal    *int32          `db:"installment_total"`
	IsInternational     bool            `db:"is_international"`
	Fingerprint         string          `db:"fingerprint"`
	CategoryID          *string         `db:"category_id"` // Nullable
	AuditFields
}
