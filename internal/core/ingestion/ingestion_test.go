package ingestion_test

import (
	"testing"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/SscSPs/spend_ledger/internal/core/ingestion"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestFingerprint_Deterministic(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-50.00")
	stmt := strPtr("stmt-1")

	first := ingestion.Fingerprint(date, amount, "IFOOD *RESTAURANTE", stmt)
	second := ingestion.Fingerprint(date, amount, "IFOOD *RESTAURANTE", stmt)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Equal(t, first, ingestion.Fingerprint(date, decimal.NewFromInt(-50), "IFOOD *RESTAURANTE", stmt),
		"equal amounts with different scale must hash equally")
}

func TestFingerprint_FieldSensitivity(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(-50)
	base := ingestion.Fingerprint(date, amount, "IFOOD", strPtr("stmt-1"))

	variants := map[string]string{
		"date":         ingestion.Fingerprint(date.AddDate(0, 0, 1), amount, "IFOOD", strPtr("stmt-1")),
		"amount":       ingestion.Fingerprint(date, decimal.NewFromInt(-51), "IFOOD", strPtr("stmt-1")),
		"description":  ingestion.Fingerprint(date, amount, "IFOOD ", strPtr("stmt-1")),
		"statement":    ingestion.Fingerprint(date, amount, "IFOOD", strPtr("stmt-2")),
		"no statement": ingestion.Fingerprint(date, amount, "IFOOD", nil),
	}
	for name, fp := range variants {
		assert.NotEqual(t, base, fp, name)
	}
}

func TestParseInstallment(t *testing.T) {
	tests := []struct {
		in      string
		wantOK  bool
		current int
		total   int
	}{
		{"PARCELA 02/12", true, 2, 12},
		{"Parcela 2/12", true, 2, 12},
		{"LOJA XYZ 3/3", true, 3, 3},
		{"LOJA 04\\10", true, 4, 10},
		{"5/2", false, 0, 0},
		{"1/1", false, 0, 0},
		{"NETFLIX.COM", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ingestion.ParseInstallment(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.current, got.Current)
				assert.Equal(t, tt.total, got.Total)
			}
		})
	}
}

func TestExtractInstallment_PrefersOriginal(t *testing.T) {
	got, ok := ingestion.ExtractInstallment("MAGALU PARCELA 03/10", "Magalu")
	require.True(t, ok)
	assert.Equal(t, ingestion.Installment{Current: 3, Total: 10}, got)

	got, ok = ingestion.ExtractInstallment("", "Magalu 2/4")
	require.True(t, ok)
	assert.Equal(t, ingestion.Installment{Current: 2, Total: 4}, got)

	_, ok = ingestion.ExtractInstallment("MAGALU", "Magalu 2/4")
	assert.False(t, ok, "cleaned text is only a fallback when the original is absent")
}

func TestNormalize_SignConvention(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		amount   string
		typ      domain.TransactionType
		wantAmt  string
		wantType domain.TransactionType
	}{
		{"positive debit", "50", domain.Debit, "-50", domain.Debit},
		{"negative debit", "-50", domain.Debit, "-50", domain.Debit},
		{"negative credit", "-10", domain.Credit, "10", domain.Credit},
		{"transfer untouched", "-20", domain.Transfer, "-20", domain.Transfer},
		{"inferred debit", "-5", "", "-5", domain.Debit},
		{"inferred credit", "5", "", "5", domain.Credit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ingestion.Normalize(domain.RawTransaction{
				Date:        date,
				Description: "X",
				Amount:      decimal.RequireFromString(tt.amount),
				Type:        tt.typ,
			})
			assert.True(t, decimal.RequireFromString(tt.wantAmt).Equal(n.Amount), n.Amount.String())
			assert.Equal(t, tt.wantType, n.Type)
		})
	}
}

func TestNormalize_Installments(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	n := ingestion.Normalize(domain.RawTransaction{
		Date:                date,
		Description:         "  Loja   XYZ ",
		OriginalDescription: "LOJA XYZ PARCELA 02/06",
		Amount:              decimal.NewFromInt(-100),
	})
	assert.Equal(t, "Loja XYZ", n.Description)
	require.NotNil(t, n.InstallmentCurrent)
	assert.Equal(t, 2, *n.InstallmentCurrent)
	assert.Equal(t, 6, *n.InstallmentTotal)

	n = ingestion.Normalize(domain.RawTransaction{
		Date:               date,
		Description:        "LOJA",
		Amount:             decimal.NewFromInt(-100),
		InstallmentCurrent: intPtr(4),
		InstallmentTotal:   intPtr(5),
	})
	assert.Equal(t, 4, *n.InstallmentCurrent)

	n = ingestion.Normalize(domain.RawTransaction{
		Date:               date,
		Description:        "LOJA",
		Amount:             decimal.NewFromInt(-100),
		InstallmentCurrent: intPtr(1),
		InstallmentTotal:   intPtr(1),
	})
	assert.Nil(t, n.InstallmentCurrent)
	assert.Nil(t, n.InstallmentTotal)
}

func TestToTransaction_SignAgnosticFingerprint(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	stmt := strPtr("stmt-1")

	positive := ingestion.ToTransaction("u1", stmt, domain.RawTransaction{
		Date: date, Description: "UBER", OriginalDescription: "UBER *TRIP", Amount: decimal.NewFromInt(30), Type: domain.Debit,
	})
	negative := ingestion.ToTransaction("u1", stmt, domain.RawTransaction{
		Date: date, Description: "UBER", OriginalDescription: "UBER *TRIP", Amount: decimal.NewFromInt(-30), Type: domain.Debit,
	})

	assert.Equal(t, positive.Fingerprint, negative.Fingerprint)
	assert.Equal(t, "u1", positive.UserID)
	assert.Equal(t, "UBER *TRIP", positive.OriginalDescription)

	noOriginal := ingestion.ToTransaction("u1", nil, domain.RawTransaction{
		Date: date, Description: "UBER", Amount: decimal.NewFromInt(-30),
	})
	assert.Equal(t, "UBER", noOriginal.OriginalDescription)
}
