package analytics

import (
	"sort"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	VelocityWindowDays = 30
	projectionDays     = 30
)

var trendThreshold = decimal.NewFromInt(5)

// TrendFor classifies a percent change in spending.
func TrendFor(change decimal.Decimal) domain.Trend {
	switch {
	case change.GreaterThan(trendThreshold):
		return domain.TrendUp
	case change.LessThan(trendThreshold.Neg()):
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}

// SummaryWindow returns the earliest date BuildSpendingSummary needs to see:
// the start of the year or the start of the previous velocity window, whichever is earlier.
func SummaryWindow(now time.Time) domain.Period {
	now = now.UTC()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	velocityStart := now.AddDate(0, 0, -2*VelocityWindowDays)
	from := yearStart
	if velocityStart.Before(from) {
		from = velocityStart
	}
	return domain.Period{From: from, To: now.Add(time.Nanosecond)}
}

// BuildSpendingSummary computes velocity, monthly averages, the month
// projection, the most frequent category and the savings rate as of now.
// txs should cover SummaryWindow(now); rows after now are ignored.
func BuildSpendingSummary(now time.Time, txs []domain.Transaction, categoryNames map[string]string) domain.SpendingSummary {
	now = now.UTC()
	currentStart := now.AddDate(0, 0, -VelocityWindowDays)
	previousStart := now.AddDate(0, 0, -2*VelocityWindowDays)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	current, previous := decimal.Zero, decimal.Zero
	monthDebits, monthCredits := decimal.Zero, decimal.Zero
	monthly := make(map[string]decimal.Decimal)
	categoryCounts := make(map[string]int)
	categoryTotals := make(map[string]decimal.Decimal)

	for _, t := range txs {
		d := t.Date.UTC()
		if d.After(now) {
			continue
		}
		amount := t.AbsAmount()

		if t.Type == domain.Credit && !d.Before(monthStart) {
			monthCredits = monthCredits.Add(amount)
		}
		if t.Type != domain.Debit {
			continue
		}

		switch {
		case !d.Before(currentStart):
			current = current.Add(amount)
		case !d.Before(previousStart):
			previous = previous.Add(amount)
		}

		if !d.Before(monthStart) {
			monthDebits = monthDebits.Add(amount)
		}
		if d.Year() == now.Year() {
			mk := d.Format(monthLayout)
			monthly[mk] = monthly[mk].Add(amount)
			if !t.IsUncategorized() {
				categoryCounts[*t.CategoryID]++
				categoryTotals[*t.CategoryID] = categoryTotals[*t.CategoryID].Add(amount)
			}
		}
	}

	change := PercentChange(current, previous)
	summary := domain.SpendingSummary{
		AsOf: now,
		Velocity: domain.Velocity{
			Current:  current,
			Previous: previous,
			Change:   change,
			Trend:    TrendFor(change),
		},
		AverageMonthlySpending: decimal.Zero,
		MonthToDate:            monthDebits,
		ProjectedMonth:         ProjectMonth(monthDebits, now.Day()),
		MonthCredits:           monthCredits,
		MonthDebits:            monthDebits,
		SavingsRate:            Ratio(monthCredits.Sub(monthDebits), monthCredits),
	}

	if len(monthly) > 0 {
		keys := make([]string, 0, len(monthly))
		total := decimal.Zero
		for mk, v := range monthly {
			keys = append(keys, mk)
			total = total.Add(v)
		}
		sort.Strings(keys)
		summary.AverageMonthlySpending = total.Div(decimal.NewFromInt(int64(len(keys))))

		highest := domain.MonthAmount{Month: keys[0], Total: monthly[keys[0]]}
		for _, mk := range keys[1:] {
			if monthly[mk].GreaterThan(highest.Total) {
				highest = domain.MonthAmount{Month: mk, Total: monthly[mk]}
			}
		}
		summary.HighestMonth = &highest
	}

	summary.TopCategory = mostFrequentCategory(categoryCounts, categoryTotals, categoryNames)
	return summary
}

// ProjectMonth extrapolates spending so far to a 30-day month.
func ProjectMonth(spentSoFar decimal.Decimal, daysElapsed int) decimal.Decimal {
	if daysElapsed <= 0 {
		return decimal.Zero
	}
	return spentSoFar.Div(decimal.NewFromInt(int64(daysElapsed))).Mul(decimal.NewFromInt(projectionDays))
}

func mostFrequentCategory(counts map[string]int, totals map[string]decimal.Decimal, names map[string]string) *domain.CategoryAmount {
	var best *domain.CategoryAmount
	for id, n := range counts {
		name := names[id]
		if best == nil || n > best.Count || (n == best.Count && name < best.CategoryName) {
			categoryID := id
			best = &domain.CategoryAmount{CategoryID: &categoryID, CategoryName: name, Count: n, Total: totals[id]}
		}
	}
	return best
}
