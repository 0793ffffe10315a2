package analytics_test

import (
	"testing"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/analytics"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func tx(date time.Time, amount string, typ domain.TransactionType, categoryID string) domain.Transaction {
	t := domain.Transaction{Date: date, Amount: dec(amount), Type: typ}
	if categoryID != "" {
		t.CategoryID = &categoryID
	}
	return t
}

func TestPercentile_R7(t *testing.T) {
	values := []decimal.Decimal{dec("40"), dec("10"), dec("30"), dec("20")}

	assertDecimal(t, "25", analytics.Percentile(values, 50))
	assertDecimal(t, "17.5", analytics.Percentile(values, 25))
	assertDecimal(t, "32.5", analytics.Percentile(values, 75))
	assertDecimal(t, "10", analytics.Percentile(values, 0))
	assertDecimal(t, "40", analytics.Percentile(values, 100))
	assertDecimal(t, "7", analytics.Percentile([]decimal.Decimal{dec("7")}, 50))
	assertDecimal(t, "0", analytics.Percentile(nil, 50))

	assert.True(t, values[0].Equal(dec("40")), "input must not be reordered")
}

func TestPercentChange_ZeroPrevious(t *testing.T) {
	assertDecimal(t, "0", analytics.PercentChange(dec("100"), decimal.Zero))
	assertDecimal(t, "50", analytics.PercentChange(dec("150"), dec("100")))
	assertDecimal(t, "-25", analytics.PercentChange(dec("75"), dec("100")))
	assertDecimal(t, "0", analytics.Ratio(dec("10"), decimal.Zero))
}

func TestEvaluateBudget_Boundaries(t *testing.T) {
	tests := []struct {
		limit  string
		spent  string
		pct    string
		status domain.BudgetState
	}{
		{"100", "79.9", "79.9", domain.BudgetOK},
		{"100", "80", "80", domain.BudgetWarning},
		{"100", "100", "100", domain.BudgetExceeded},
		{"100", "130", "130", domain.BudgetExceeded},
		{"0", "50", "0", domain.BudgetOK},
	}
	for _, tt := range tests {
		t.Run(tt.limit+"/"+tt.spent, func(t *testing.T) {
			got := analytics.EvaluateBudget(domain.Budget{MonthlyLimit: dec(tt.limit), IsActive: true}, "Food", dec(tt.spent))
			assertDecimal(t, tt.pct, got.Percentage)
			assert.Equal(t, tt.status, got.Status)
			assert.False(t, got.Remaining.IsNegative())
		})
	}
}

func TestEvaluateBudgets_OrderAndInactive(t *testing.T) {
	budgets := []domain.Budget{
		{BudgetID: "b1", CategoryID: "food", MonthlyLimit: dec("100"), IsActive: true},
		{BudgetID: "b2", CategoryID: "fun", MonthlyLimit: dec("50"), IsActive: true},
		{BudgetID: "b3", CategoryID: "car", MonthlyLimit: dec("10"), IsActive: false},
	}
	spent := map[string]decimal.Decimal{"food": dec("-50"), "fun": dec("45"), "car": dec("999")}
	names := map[string]string{"food": "Food", "fun": "Fun", "car": "Car"}

	got := analytics.EvaluateBudgets(budgets, spent, names)

	require.Len(t, got, 2)
	assert.Equal(t, "b2", got[0].Budget.BudgetID)
	assert.Equal(t, domain.BudgetWarning, got[0].Status)
	assert.Equal(t, "Food", got[1].CategoryName)
	assertDecimal(t, "50", got[1].Spent)
	assertDecimal(t, "50", got[1].Remaining)
}

func TestComparePeriods(t *testing.T) {
	current := analytics.NewPeriodTotals(domain.Period{},
		[]domain.TypeTotal{
			{Type: domain.Credit, Total: dec("1000"), Count: 1},
			{Type: domain.Debit, Total: dec("-300"), Count: 3},
			{Type: domain.Transfer, Total: dec("50"), Count: 1},
		},
		[]domain.CategoryAmount{
			{CategoryName: "A", Total: dec("-100")},
			{CategoryName: "B", Total: dec("-200")},
		}, 1)
	previous := analytics.NewPeriodTotals(domain.Period{},
		[]domain.TypeTotal{{Type: domain.Debit, Total: dec("200"), Count: 2}}, nil, 1)

	assertDecimal(t, "700", current.Net)
	assert.Equal(t, 5, current.Count)
	require.Len(t, current.TopCategories, 1)
	assert.Equal(t, "B", current.TopCategories[0].CategoryName)
	assertDecimal(t, "200", current.TopCategories[0].Total)

	cmp := analytics.ComparePeriods(current, previous)
	assertDecimal(t, "100", cmp.DebitsDelta.Value)
	assertDecimal(t, "50", cmp.DebitsDelta.Percent)
	assertDecimal(t, "1000", cmp.CreditsDelta.Value)
	assertDecimal(t, "0", cmp.CreditsDelta.Percent)
	assertDecimal(t, "3", cmp.CountDelta.Value)
	assertDecimal(t, "150", cmp.CountDelta.Percent)
}

func TestPreviousPeriod(t *testing.T) {
	p := domain.Period{From: day(2024, 3, 1), To: day(2024, 3, 31)}
	prev := analytics.PreviousPeriod(p)
	assert.Equal(t, p.From, prev.To)
	assert.Equal(t, p.To.Sub(p.From), prev.To.Sub(prev.From))
}

func TestBuildHeatmap(t *testing.T) {
	txs := []domain.Transaction{
		tx(day(2024, 1, 1), "-10", domain.Debit, ""), // Monday
		tx(day(2024, 1, 2), "-20", domain.Debit, ""),
		tx(day(2024, 1, 3), "-25", domain.Debit, ""),
		tx(day(2024, 1, 3), "-5", domain.Debit, ""),
		tx(day(2024, 2, 8), "-40", domain.Debit, ""),
		tx(day(2024, 2, 9), "1000", domain.Credit, ""),
		tx(day(2024, 2, 9), "-70", domain.Transfer, ""),
		tx(day(2023, 12, 31), "-999", domain.Debit, ""),
	}

	hm := analytics.BuildHeatmap(2024, domain.HeatmapAll, txs)

	require.Len(t, hm.Days, 5)
	assert.Equal(t, "2024-01-01", hm.Days[0].Date)
	assertDecimal(t, "30", hm.Days[2].Spending)
	assert.Equal(t, 2, hm.Days[2].Count)

	assertDecimal(t, "40", hm.Stats.MaxSpending)
	assertDecimal(t, "25", hm.Stats.MeanSpending)
	assertDecimal(t, "17.5", hm.Stats.P25)
	assertDecimal(t, "25", hm.Stats.P50)
	assertDecimal(t, "32.5", hm.Stats.P75)
	assert.Equal(t, 4, hm.Stats.SpendingDays)

	levels := make([]int, len(hm.Days))
	for i, d := range hm.Days {
		levels[i] = d.Level
	}
	assert.Equal(t, []int{1, 2, 3, 4, 0}, levels)
	assert.Equal(t, 2, hm.Days[4].Count, "transfers count toward activity only")
	assertDecimal(t, "1000", hm.Days[4].Income)

	require.Len(t, hm.Months, 2)
	assert.Equal(t, "2024-01", hm.Months[0].Month)
	assertDecimal(t, "60", hm.Months[0].Spending)
	assertDecimal(t, "960", hm.Months[1].Net)

	require.Len(t, hm.HighestDays, 4)
	assert.Equal(t, "2024-02-08", hm.HighestDays[0].Date)
	assert.Equal(t, "2024-01-01", hm.LowestDays[0].Date)

	require.Len(t, hm.WeekdayAverages, 7)
	assert.Equal(t, 1, hm.WeekdayAverages[1].Weekday)
	assertDecimal(t, "10", hm.WeekdayAverages[1].Average)
	assert.Equal(t, 0, hm.WeekdayAverages[0].Days)
}

func TestBuildHeatmap_CreditFilter(t *testing.T) {
	txs := []domain.Transaction{
		tx(day(2024, 5, 1), "-10", domain.Debit, ""),
		tx(day(2024, 5, 2), "500", domain.Credit, ""),
	}
	hm := analytics.BuildHeatmap(2024, domain.HeatmapCredit, txs)

	require.Len(t, hm.Days, 1)
	assert.Equal(t, 0, hm.Days[0].Level)
	assertDecimal(t, "0", hm.Stats.P50)
	assert.Empty(t, hm.HighestDays)
}

func TestIntensityLevel(t *testing.T) {
	p25, p50, p75 := dec("10"), dec("20"), dec("30")
	assert.Equal(t, 0, analytics.IntensityLevel(decimal.Zero, p25, p50, p75))
	assert.Equal(t, 1, analytics.IntensityLevel(dec("10"), p25, p50, p75))
	assert.Equal(t, 2, analytics.IntensityLevel(dec("20"), p25, p50, p75))
	assert.Equal(t, 3, analytics.IntensityLevel(dec("30"), p25, p50, p75))
	assert.Equal(t, 4, analytics.IntensityLevel(dec("30.01"), p25, p50, p75))
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, domain.TrendUp, analytics.TrendFor(dec("5.01")))
	assert.Equal(t, domain.TrendStable, analytics.TrendFor(dec("5")))
	assert.Equal(t, domain.TrendStable, analytics.TrendFor(dec("-5")))
	assert.Equal(t, domain.TrendDown, analytics.TrendFor(dec("-5.01")))
}

func TestBuildSpendingSummary_EndToEnd(t *testing.T) {
	now := time.Date(2024, 1, 31, 18, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(day(2024, 1, 5), "-50", domain.Debit, "food"),
		tx(day(2024, 1, 20), "-150", domain.Debit, "home"),
		tx(day(2024, 1, 22), "-20", domain.Debit, "food"),
		tx(day(2024, 1, 10), "1000", domain.Credit, ""),
		tx(day(2023, 12, 15), "-100", domain.Debit, "food"),
		tx(day(2024, 2, 1), "-999", domain.Debit, "food"),
	}
	names := map[string]string{"food": "Food", "home": "Home"}

	s := analytics.BuildSpendingSummary(now, txs, names)

	assertDecimal(t, "220", s.MonthDebits)
	assertDecimal(t, "1000", s.MonthCredits)
	assertDecimal(t, "78", s.SavingsRate)
	assertDecimal(t, "220", s.Velocity.Current)
	assertDecimal(t, "100", s.Velocity.Previous)
	assert.Equal(t, domain.TrendUp, s.Velocity.Trend)
	assertDecimal(t, "220", s.AverageMonthlySpending)
	require.NotNil(t, s.HighestMonth)
	assert.Equal(t, "2024-01", s.HighestMonth.Month)
	require.NotNil(t, s.TopCategory)
	assert.Equal(t, "Food", s.TopCategory.CategoryName)
	assert.Equal(t, 2, s.TopCategory.Count)
	assertDecimal(t, "70", s.TopCategory.Total)
	assert.True(t, s.ProjectedMonth.Sub(dec("212.9032258")).Abs().LessThan(dec("0.0001")))
}

func TestBuildSpendingSummary_SavingsRateSpec(t *testing.T) {
	now := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(day(2024, 1, 5), "-50", domain.Debit, "food"),
		tx(day(2024, 1, 20), "-150", domain.Debit, ""),
		tx(day(2024, 1, 10), "1000", domain.Credit, ""),
	}
	s := analytics.BuildSpendingSummary(now, txs, nil)
	assertDecimal(t, "80", s.SavingsRate)

	empty := analytics.BuildSpendingSummary(now, nil, nil)
	assertDecimal(t, "0", empty.SavingsRate)
	assert.Nil(t, empty.HighestMonth)
	assert.Nil(t, empty.TopCategory)
	assert.Equal(t, domain.TrendStable, empty.Velocity.Trend)
}
