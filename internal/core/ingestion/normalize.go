package ingestion

import (
	"strings"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// CleanDescription collapses runs of whitespace and trims the ends.
func CleanDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize applies the ledger sign convention to a parser record.
// Debits are forced negative and credits positive; transfers keep their sign.
// A missing type is inferred from the sign of the amount.
func Normalize(raw domain.RawTransaction) domain.RawTransaction {
	out := raw

	if out.Type == "" {
		if out.Amount.IsNegative() {
			out.Type = domain.Debit
		} else {
			out.Type = domain.Credit
		}
	}

	switch out.Type {
	case domain.Debit:
		out.Amount = out.Amount.Abs().Neg()
	case domain.Credit:
		out.Amount = out.Amount.Abs()
	}

	out.Description = CleanDescription(out.Description)
	if out.Description == "" {
		out.Description = CleanDescription(out.OriginalDescription)
	}

	if out.InstallmentCurrent != nil && out.InstallmentTotal != nil &&
		ValidInstallment(*out.InstallmentCurrent, *out.InstallmentTotal) {
		return out
	}

	out.InstallmentCurrent, out.InstallmentTotal = nil, nil
	if inst, ok := ExtractInstallment(out.OriginalDescription, out.Description); ok {
		current, total := inst.Current, inst.Total
		out.InstallmentCurrent = &current
		out.InstallmentTotal = &total
	}
	return out
}

// ToTransaction normalizes raw and builds the ledger row for userID.
// Identifier and audit fields are left for the caller.
func ToTransaction(userID string, statementID *string, raw domain.RawTransaction) domain.Transaction {
	n := Normalize(raw)

	rawDescription := n.OriginalDescription
	if rawDescription == "" {
		rawDescription = n.Description
	}

	return domain.Transaction{
		UserID:              userID,
		StatementID:         statementID,
		Date:                n.Date,
		PostDate:            n.PostDate,
		OriginalDescription: rawDescription,
		Description:         n.Description,
		Amount:              n.Amount,
		Type:                n.Type,
		InstallmentCurrent:  n.InstallmentCurrent,
		InstallmentTotal:    n.InstallmentTotal,
		IsInternational:     n.IsInternational,
		Fingerprint:         Fingerprint(n.Date, n.Amount, rawDescription, statementID),
	}
}
