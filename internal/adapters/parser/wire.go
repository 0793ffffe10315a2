package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// The parser service emits timezone-less datetimes.
var naiveLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// naiveTime decodes the parser's datetimes as UTC.
type naiveTime struct {
	time.Time
}

func (t *naiveTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	for _, layout := range naiveLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized datetime %q", s)
}

func (t *naiveTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

type wireTransaction struct {
	Date                naiveTime       `json:"date"`
	Description         string          `json:"description"`
	OriginalDescription string          `json:"original_description"`
	Amount              decimal.Decimal `json:"amount"`
	Type                string          `json:"type"`
	InstallmentCurrent  *int            `json:"installment_current"`
	InstallmentTotal    *int            `json:"installment_total"`
	IsInternational     bool            `json:"is_international"`
}

type wireParseResult struct {
	Success       bool              `json:"success"`
	Bank          string            `json:"bank"`
	StatementType string            `json:"statement_type"`
	PeriodStart   *naiveTime        `json:"period_start"`
	PeriodEnd     *naiveTime        `json:"period_end"`
	TotalAmount   *decimal.Decimal  `json:"total_amount"`
	Transactions  []wireTransaction `json:"transactions"`
	ParserVersion string            `json:"parser_version"`
	ErrorMessage  *string           `json:"error_message"`
}

type wireBanks struct {
	Banks []Bank `json:"banks"`
}

// Bank is one parser the service supports.
type Bank struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func toDomainParseResult(w wireParseResult) domain.ParseResult {
	out := domain.ParseResult{
		Success:       w.Success,
		Bank:          w.Bank,
		StatementType: w.StatementType,
		PeriodStart:   w.PeriodStart.ptr(),
		PeriodEnd:     w.PeriodEnd.ptr(),
		TotalAmount:   w.TotalAmount,
		ParserVersion: w.ParserVersion,
		Transactions:  make([]domain.RawTransaction, 0, len(w.Transactions)),
	}
	if w.ErrorMessage != nil {
		out.ErrorMessage = *w.ErrorMessage
	}
	for _, t := range w.Transactions {
		out.Transactions = append(out.Transactions, domain.RawTransaction{
			Date:                t.Date.Time,
			Description:         t.Description,
			OriginalDescription: t.OriginalDescription,
			Amount:              t.Amount,
			Type:                domain.TransactionType(strings.ToUpper(t.Type)),
			InstallmentCurrent:  t.InstallmentCurrent,
			InstallmentTotal:    t.InstallmentTotal,
			IsInternational:     t.IsInternational,
		})
	}
	return out
}
