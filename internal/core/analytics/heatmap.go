package analytics

import (
	"sort"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"

	extremeDays = 5
)

type dayBucket struct {
	date     time.Time
	spending decimal.Decimal
	income   decimal.Decimal
	count    int
}

// MatchesHeatmapFilter reports whether t contributes to a heatmap with filter f.
func MatchesHeatmapFilter(t domain.Transaction, f domain.HeatmapFilter) bool {
	switch f {
	case domain.HeatmapDebit:
		return t.Type == domain.Debit
	case domain.HeatmapCredit:
		return t.Type == domain.Credit
	default:
		return true
	}
}

// IntensityLevel buckets a day's spending against the quartiles of the year.
func IntensityLevel(spending, p25, p50, p75 decimal.Decimal) int {
	switch {
	case spending.IsZero():
		return 0
	case spending.LessThanOrEqual(p25):
		return 1
	case spending.LessThanOrEqual(p50):
		return 2
	case spending.LessThanOrEqual(p75):
		return 3
	default:
		return 4
	}
}

// BuildHeatmap buckets txs of the given calendar year by day in a single pass.
// Dates are taken in UTC. Transactions outside year or not matching filter are ignored.
func BuildHeatmap(year int, filter domain.HeatmapFilter, txs []domain.Transaction) domain.Heatmap {
	if !filter.IsValid() {
		filter = domain.HeatmapAll
	}

	days := make(map[string]*dayBucket)
	for _, t := range txs {
		d := t.Date.UTC()
		if d.Year() != year || !MatchesHeatmapFilter(t, filter) {
			continue
		}

		key := d.Format(dayLayout)
		b, ok := days[key]
		if !ok {
			b = &dayBucket{
				date:     time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
				spending: decimal.Zero,
				income:   decimal.Zero,
			}
			days[key] = b
		}

		switch t.Type {
		case domain.Debit:
			b.spending = b.spending.Add(t.AbsAmount())
		case domain.Credit:
			b.income = b.income.Add(t.AbsAmount())
		}
		b.count++
	}

	ordered := make([]*dayBucket, 0, len(days))
	for _, b := range days {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].date.Before(ordered[j].date) })

	var spendingValues []decimal.Decimal
	maxSpending := decimal.Zero
	for _, b := range ordered {
		if b.spending.IsPositive() {
			spendingValues = append(spendingValues, b.spending)
			if b.spending.GreaterThan(maxSpending) {
				maxSpending = b.spending
			}
		}
	}

	stats := domain.HeatmapStats{
		MaxSpending:  maxSpending,
		MeanSpending: Mean(spendingValues),
		P25:          Percentile(spendingValues, 25),
		P50:          Percentile(spendingValues, 50),
		P75:          Percentile(spendingValues, 75),
		ActiveDays:   len(ordered),
		SpendingDays: len(spendingValues),
	}

	hm := domain.Heatmap{
		Year:   year,
		Filter: filter,
		Days:   make([]domain.HeatmapDay, 0, len(ordered)),
		Stats:  stats,
	}

	months := make(map[string]*domain.HeatmapMonth)
	var monthKeys []string
	weekdaySum := make([]decimal.Decimal, 7)
	weekdayDays := make([]int, 7)

	for _, b := range ordered {
		day := domain.HeatmapDay{
			Date:     b.date.Format(dayLayout),
			Spending: b.spending,
			Income:   b.income,
			Count:    b.count,
			Level:    IntensityLevel(b.spending, stats.P25, stats.P50, stats.P75),
		}
		hm.Days = append(hm.Days, day)

		mk := b.date.Format(monthLayout)
		m, ok := months[mk]
		if !ok {
			m = &domain.HeatmapMonth{Month: mk, Spending: decimal.Zero, Income: decimal.Zero}
			months[mk] = m
			monthKeys = append(monthKeys, mk)
		}
		m.Spending = m.Spending.Add(b.spending)
		m.Income = m.Income.Add(b.income)
		m.Count += b.count

		wd := int(b.date.Weekday())
		weekdaySum[wd] = weekdaySum[wd].Add(b.spending)
		weekdayDays[wd]++
	}

	hm.Months = make([]domain.HeatmapMonth, 0, len(monthKeys))
	for _, mk := range monthKeys {
		m := months[mk]
		m.Net = m.Income.Sub(m.Spending)
		hm.Months = append(hm.Months, *m)
	}

	hm.WeekdayAverages = make([]domain.WeekdayAverage, 7)
	for wd := 0; wd < 7; wd++ {
		avg := decimal.Zero
		if weekdayDays[wd] > 0 {
			avg = weekdaySum[wd].Div(decimal.NewFromInt(int64(weekdayDays[wd])))
		}
		hm.WeekdayAverages[wd] = domain.WeekdayAverage{Weekday: wd, Average: avg, Days: weekdayDays[wd]}
	}

	hm.HighestDays, hm.LowestDays = extremeSpendingDays(hm.Days, extremeDays)
	return hm
}

// extremeSpendingDays returns the n highest and n lowest days with nonzero spending.
func extremeSpendingDays(days []domain.HeatmapDay, n int) ([]domain.HeatmapDay, []domain.HeatmapDay) {
	spending := make([]domain.HeatmapDay, 0, len(days))
	for _, d := range days {
		if d.Spending.IsPositive() {
			spending = append(spending, d)
		}
	}

	highest := make([]domain.HeatmapDay, len(spending))
	copy(highest, spending)
	sort.SliceStable(highest, func(i, j int) bool { return highest[i].Spending.GreaterThan(highest[j].Spending) })

	lowest := make([]domain.HeatmapDay, len(spending))
	copy(lowest, spending)
	sort.SliceStable(lowest, func(i, j int) bool { return lowest[i].Spending.LessThan(lowest[j].Spending) })

	if len(highest) > n {
		highest = highest[:n]
	}
	if len(lowest) > n {
		lowest = lowest[:n]
	}
	return highest, lowest
}
