// Package analytics computes budget status, period comparisons, calendar
// heatmaps and spending velocity from already-fetched ledger data.
// Nothing here performs I/O.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PercentChange returns (current - previous) / previous * 100, or 0 when previous is 0.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred)
}

// Ratio returns part / whole * 100, or 0 when whole is 0.
func Ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Percentile returns the p-th percentile of values using linear interpolation
// between order statistics (R-7). values need not be sorted and is not modified.
func Percentile(values []decimal.Decimal, p int) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}

	sorted := make([]decimal.Decimal, n)
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	h := decimal.NewFromInt(int64(p)).Div(hundred).Mul(decimal.NewFromInt(int64(n - 1)))
	lo := int(h.IntPart())
	hi := lo
	if h.GreaterThan(decimal.NewFromInt(int64(lo))) {
		hi = lo + 1
	}
	frac := h.Sub(decimal.NewFromInt(int64(lo)))
	return sorted[lo].Add(frac.Mul(sorted[hi].Sub(sorted[lo])))
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}
