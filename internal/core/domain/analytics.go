package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is a half-open date window [From, To).
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// CategoryAmount is one row of a group-by-category aggregate.
type CategoryAmount struct {
	CategoryID   *string         `json:"categoryID,omitempty"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}

// TypeTotal is the unsigned sum and row count of one transaction type.
type TypeTotal struct {
	Type  TransactionType `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// PeriodTotals aggregates one window.
type PeriodTotals struct {
	Period        Period           `json:"period"`
	Credits       decimal.Decimal  `json:"credits"`
	Debits        decimal.Decimal  `json:"debits"`
	Net           decimal.Decimal  `json:"net"`
	Count         int              `json:"count"`
	TopCategories []CategoryAmount `json:"topCategories"`
}

// Delta is a change between two values.
type Delta struct {
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
}

// PeriodComparison holds two windows and the change between them.
type PeriodComparison struct {
	Current      PeriodTotals `json:"current"`
	Previous     PeriodTotals `json:"previous"`
	CreditsDelta Delta        `json:"creditsDelta"`
	DebitsDelta  Delta        `json:"debitsDelta"`
	NetDelta     Delta        `json:"netDelta"`
	CountDelta   Delta        `json:"countDelta"`
}

// HeatmapFilter restricts which transactions contribute to a heatmap.
type HeatmapFilter string

const (
	HeatmapAll    HeatmapFilter = "all"
	HeatmapDebit  HeatmapFilter = "debit"
	HeatmapCredit HeatmapFilter = "credit"
)

// IsValid reports whether f is a known filter.
func (f HeatmapFilter) IsValid() bool {
	switch f {
	case HeatmapAll, HeatmapDebit, HeatmapCredit:
		return true
	}
	return false
}

// HeatmapDay is one calendar date with activity.
type HeatmapDay struct {
	Date     string          `json:"date"` // YYYY-MM-DD
	Spending decimal.Decimal `json:"spending"`
	Income   decimal.Decimal `json:"income"`
	Count    int             `json:"count"`
	Level    int             `json:"level"`
}

// HeatmapMonth is a YYYY-MM rollup.
type HeatmapMonth struct {
	Month    string          `json:"month"`
	Spending decimal.Decimal `json:"spending"`
	Income   decimal.Decimal `json:"income"`
	Count    int             `json:"count"`
	Net      decimal.Decimal `json:"net"`
}

// WeekdayAverage is the mean daily spending for one weekday, 0 = Sunday.
type WeekdayAverage struct {
	Weekday int             `json:"weekday"`
	Average decimal.Decimal `json:"average"`
	Days    int             `json:"days"`
}

// HeatmapStats summarizes the nonzero daily spending distribution.
type HeatmapStats struct {
	MaxSpending  decimal.Decimal `json:"maxSpending"`
	MeanSpending decimal.Decimal `json:"meanSpending"`
	P25          decimal.Decimal `json:"p25"`
	P50          decimal.Decimal `json:"p50"`
	P75          decimal.Decimal `json:"p75"`
	ActiveDays   int             `json:"activeDays"`
	SpendingDays int             `json:"spendingDays"`
}

// Heatmap is a calendar-year view of daily activity.
type Heatmap struct {
	Year            int              `json:"year"`
	Filter          HeatmapFilter    `json:"filter"`
	Days            []HeatmapDay     `json:"days"`
	Months          []HeatmapMonth   `json:"months"`
	Stats           HeatmapStats     `json:"stats"`
	HighestDays     []HeatmapDay     `json:"highestDays"`
	LowestDays      []HeatmapDay     `json:"lowestDays"`
	WeekdayAverages []WeekdayAverage `json:"weekdayAverages"`
}

// Trend is the direction of short-term spending velocity.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// MonthAmount is a total for one YYYY-MM month.
type MonthAmount struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Velocity compares the trailing window to the one before it.
type Velocity struct {
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Change   decimal.Decimal `json:"change"`
	Trend    Trend           `json:"trend"`
}

// SpendingSummary is the dashboard-level spending overview.
type SpendingSummary struct {
	AsOf                   time.Time       `json:"asOf"`
	Velocity               Velocity        `json:"velocity"`
	AverageMonthlySpending decimal.Decimal `json:"averageMonthlySpending"`
	HighestMonth           *MonthAmount    `json:"highestMonth,omitempty"`
	MonthToDate            decimal.Decimal `json:"monthToDate"`
	ProjectedMonth         decimal.Decimal `json:"projectedMonth"`
	TopCategory            *CategoryAmount `json:"topCategory,omitempty"`
	MonthCredits           decimal.Decimal `json:"monthCredits"`
	MonthDebits            decimal.Decimal `json:"monthDebits"`
	SavingsRate            decimal.Decimal `json:"savingsRate"`
}
