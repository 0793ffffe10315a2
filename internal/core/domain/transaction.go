package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a statement line.
type TransactionType string

const (
	Debit    TransactionType = "DEBIT"
	Credit   TransactionType = "CREDIT"
	Transfer TransactionType = "TRANSFER"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case Debit, Credit, Transfer:
		return true
	}
	return false
}

// Transaction is a persisted ledger row.
// Amounts are signed: debits are stored negative and credits positive.
type Transaction struct {
	TransactionID       string          `json:"transactionID"`
	UserID              string          `json:"userID"`
	StatementID         *string         `json:"statementID,omitempty"`
	Date                time.Time       `json:"date"`
	PostDate            *time.Time      `json:"postDate,omitempty"`
	OriginalDescription string          `json:"originalDescription"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
	Type                TransactionType `json:"type"`
	InstallmentCurrent  *int            `json:"installmentCurrent,omitempty"`
	InstallmentTotal    *int            `json:"installmentTotal,omitempty"`
	IsInternational     bool            `json:"isInternational"`
	Fingerprint         string          `json:"fingerprint"`
	CategoryID          *string         `json:"categoryID,omitempty"`
	AuditFields
}

// AbsAmount returns the unsigned amount of the transaction.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// IsUncategorized reports whether the transaction has no category yet.
func (t Transaction) IsUncategorized() bool {
	return t.CategoryID == nil || *t.CategoryID == ""
}

// RawTransaction is a single record as emitted by the statement parser.
type RawTransaction struct {
	Date                time.Time       `json:"date"`
	PostDate            *time.Time      `json:"postDate,omitempty"`
	Description         string          `json:"description"`
	OriginalDescription string          `json:"originalDescription"`
	Amount              decimal.Decimal `json:"amount"`
	Type                TransactionType `json:"type"`
	InstallmentCurrent  *int            `json:"installmentCurrent,omitempty"`
	InstallmentTotal    *int            `json:"installmentTotal,omitempty"`
	IsInternational     bool            `json:"isInternational"`
}

// Validate checks the fields the ingestion path cannot recover from.
func (r RawTransaction) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	if r.Description == "" && r.OriginalDescription == "" {
		return fmt.Errorf("transaction description is required")
	}
	if r.Type != "" && !r.Type.IsValid() {
		return fmt.Errorf("unknown transaction type '%s'", r.Type)
	}
	return nil
}

// ParseResult is the statement parser's response for one file.
type ParseResult struct {
	Success       bool             `json:"success"`
	Bank          string           `json:"bank"`
	StatementType string           `json:"statementType"`
	PeriodStart   *time.Time       `json:"periodStart,omitempty"`
	PeriodEnd     *time.Time       `json:"periodEnd,omitempty"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
	Transactions  []RawTransaction `json:"transactions"`
	ParserVersion string           `json:"parserVersion"`
	ErrorMessage  string           `json:"errorMessage,omitempty"`
}

// IngestResult summarizes one ingestion call.
type IngestResult struct {
	Received    int `json:"received"`
	Inserted    int `json:"inserted"`
	Skipped     int `json:"skipped"`
	Categorized int `json:"categorized"`
}

// IngestOptions controls optional work done while ingesting.
type IngestOptions struct {
	AutoCategorize bool
	MinConfidence  Confidence
}

// TransactionFilter narrows a find-many over a user's transactions.
type TransactionFilter struct {
	UserID            string
	From              time.Time
	To                time.Time
	Types             []TransactionType
	UncategorizedOnly bool
}
