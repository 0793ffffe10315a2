package dto

import (
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RawTransactionRequest is one parser record submitted for import.
type RawTransactionRequest struct {
	Date                time.Time       `json:"date" binding:"required"`
	PostDate            *time.Time      `json:"postDate"`
	Description         string          `json:"description"`
	OriginalDescription string          `json:"originalDescription"`
	Amount              decimal.Decimal `json:"amount"`
	Type                string          `json:"type" binding:"omitempty,oneof=DEBIT CREDIT TRANSFER"`
	InstallmentCurrent  *int            `json:"installmentCurrent"`
	InstallmentTotal    *int            `json:"installmentTotal"`
	IsInternational     bool            `json:"isInternational"`
}

// ImportTransactionsRequest defines the body of a JSON import.
type ImportTransactionsRequest struct {
	StatementID    *string                 `json:"statementID"`
	Transactions   []RawTransactionRequest `json:"transactions" binding:"required,dive"`
	AutoCategorize bool                    `json:"autoCategorize"`
	MinConfidence  domain.Confidence       `json:"minConfidence" binding:"omitempty,oneof=high medium low"`
}

// UploadStatementParams are the form fields sent alongside an uploaded statement file.
type UploadStatementParams struct {
	StatementID    *string           `form:"statementID"`
	Bank           string            `form:"bank"`
	Password       string            `form:"password"`
	AutoCategorize bool              `form:"autoCategorize"`
	MinConfidence  domain.Confidence `form:"minConfidence" binding:"omitempty,oneof=high medium low"`
}

// ImportResponse reports the outcome of an import.
type ImportResponse struct {
	Received    int     `json:"received"`
	Inserted    int     `json:"inserted"`
	Skipped     int     `json:"skipped"`
	Categorized int     `json:"categorized"`
	Bank        string  `json:"bank,omitempty"`
	ParserError *string `json:"parserError,omitempty"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID      string          `json:"transactionID"`
	StatementID        *string         `json:"statementID,omitempty"`
	Date               time.Time       `json:"date"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Type               string          `json:"type"`
	InstallmentCurrent *int            `json:"installmentCurrent,omitempty"`
	InstallmentTotal   *int            `json:"installmentTotal,omitempty"`
	IsInternational    bool            `json:"isInternational"`
	CategoryID         *string         `json:"categoryID,omitempty"`
}

// ToRawTransactions converts import rows to parser records.
func ToRawTransactions(reqs []RawTransactionRequest) []domain.RawTransaction {
	out := make([]domain.RawTransaction, len(reqs))
	for i, r := range reqs {
		out[i] = domain.RawTransaction{
			Date:                r.Date,
			PostDate:            r.PostDate,
			Description:         r.Description,
			OriginalDescription: r.OriginalDescription,
			Amount:              r.Amount,
			Type:                domain.TransactionType(r.Type),
			InstallmentCurrent:  r.InstallmentCurrent,
			InstallmentTotal:    r.InstallmentTotal,
			IsInternational:     r.IsInternational,
		}
	}
	return out
}

// ToImportResponse converts an ingestion summary to ImportResponse DTO.
func ToImportResponse(r *domain.IngestResult) ImportResponse {
	return ImportResponse{
		Received:    r.Received,
		Inserted:    r.Inserted,
		Skipped:     r.Skipped,
		Categorized: r.Categorized,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:      t.TransactionID,
		StatementID:        t.StatementID,
		Date:               t.Date,
		Description:        t.Description,
		Amount:             t.Amount,
		Type:               string(t.Type),
		InstallmentCurrent: t.InstallmentCurrent,
		InstallmentTotal:   t.InstallmentTotal,
		IsInternational:    t.IsInternational,
		CategoryID:         t.CategoryID,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txs []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txs))
	for i, t := range txs {
		res[i] = ToTransactionResponse(t)
	}
	return res
}
