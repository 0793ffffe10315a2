package analytics

import (
	"sort"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTopCategories is the breakdown size used when the caller does not pick one.
const DefaultTopCategories = 5

// NewPeriodTotals assembles one window from per-type aggregates and the debit
// breakdown by category. Only the first topN categories are kept.
func NewPeriodTotals(period domain.Period, byType []domain.TypeTotal, byCategory []domain.CategoryAmount, topN int) domain.PeriodTotals {
	totals := domain.PeriodTotals{
		Period:  period,
		Credits: decimal.Zero,
		Debits:  decimal.Zero,
	}

	for _, tt := range byType {
		switch tt.Type {
		case domain.Credit:
			totals.Credits = totals.Credits.Add(tt.Total.Abs())
		case domain.Debit:
			totals.Debits = totals.Debits.Add(tt.Total.Abs())
		}
		totals.Count += tt.Count
	}
	totals.Net = totals.Credits.Sub(totals.Debits)
	totals.TopCategories = TopCategories(byCategory, topN)
	return totals
}

// TopCategories returns the n largest totals, ties broken by name.
func TopCategories(rows []domain.CategoryAmount, n int) []domain.CategoryAmount {
	out := make([]domain.CategoryAmount, len(rows))
	for i, r := range rows {
		r.Total = r.Total.Abs()
		out[i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// NewDelta returns the absolute and percent change from previous to current.
func NewDelta(current, previous decimal.Decimal) domain.Delta {
	return domain.Delta{
		Value:   current.Sub(previous),
		Percent: PercentChange(current, previous),
	}
}

// ComparePeriods computes deltas between two already-aggregated windows.
func ComparePeriods(current, previous domain.PeriodTotals) domain.PeriodComparison {
	return domain.PeriodComparison{
		Current:      current,
		Previous:     previous,
		CreditsDelta: NewDelta(current.Credits, previous.Credits),
		DebitsDelta:  NewDelta(current.Debits, previous.Debits),
		NetDelta:     NewDelta(current.Net, previous.Net),
		CountDelta:   NewDelta(decimal.NewFromInt(int64(current.Count)), decimal.NewFromInt(int64(previous.Count))),
	}
}

// PreviousPeriod returns the window of equal length immediately before p.
func PreviousPeriod(p domain.Period) domain.Period {
	return domain.Period{From: p.From.Add(-p.To.Sub(p.From)), To: p.From}
}
