package services

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// AnalyticsService defines the read-side spending reports.
type AnalyticsService interface {
	// ComparePeriods aggregates both windows and the change between them.
	ComparePeriods(ctx context.Context, userID string, current, previous domain.Period, topN int) (*domain.PeriodComparison, error)

	// Heatmap builds the calendar view of one year.
	Heatmap(ctx context.Context, userID string, year int, filter domain.HeatmapFilter) (*domain.Heatmap, error)

	// SpendingSummary reports velocity, projections and savings as of now.
	SpendingSummary(ctx context.Context, userID string) (*domain.SpendingSummary, error)
}
