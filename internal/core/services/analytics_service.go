package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/analytics"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

// analyticsService implements portssvc.AnalyticsService
type analyticsService struct {
	BaseService
	txRepo       portsrepo.TransactionReader
	categoryRepo portsrepo.CategoryReader
}

// AnalyticsServiceOption is a functional option for configuring the analytics service
type AnalyticsServiceOption func(*analyticsService)

// WithAnalyticsClock overrides the time source used for "now" in summaries.
func WithAnalyticsClock(clock func() time.Time) AnalyticsServiceOption {
	return func(s *analyticsService) {
		s.clock = clock
	}
}

// NewAnalyticsService creates a new analytics service with the provided options
func NewAnalyticsService(txRepo portsrepo.TransactionReader, categoryRepo portsrepo.CategoryReader, options ...AnalyticsServiceOption) portssvc.AnalyticsService {
	svc := &analyticsService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.AnalyticsService = (*analyticsService)(nil)

func validatePeriod(name string, p domain.Period) error {
	if p.From.IsZero() || p.To.IsZero() || !p.From.Before(p.To) {
		return fmt.Errorf("%w: %s period must have from before to", apperrors.ErrValidation, name)
	}
	return nil
}

func (s *analyticsService) periodTotals(ctx context.Context, userID string, p domain.Period, topN int) (domain.PeriodTotals, error) {
	byType, err := s.txRepo.SumByType(ctx, userID, p)
	if err != nil {
		return domain.PeriodTotals{}, err
	}
	byCategory, err := s.txRepo.SumDebitsByCategory(ctx, userID, p)
	if err != nil {
		return domain.PeriodTotals{}, err
	}
	return analytics.NewPeriodTotals(p, byType, byCategory, topN), nil
}

// ComparePeriods aggregates both windows concurrently.
func (s *analyticsService) ComparePeriods(ctx context.Context, userID string, current, previous domain.Period, topN int) (*domain.PeriodComparison, error) {
	if err := validatePeriod("current", current); err != nil {
		return nil, err
	}
	if err := validatePeriod("previous", previous); err != nil {
		return nil, err
	}
	if current.From.Before(previous.To) && previous.From.Before(current.To) {
		return nil, fmt.Errorf("%w: periods must not overlap", apperrors.ErrValidation)
	}
	if topN <= 0 {
		topN = analytics.DefaultTopCategories
	}

	var cur, prev domain.PeriodTotals
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cur, err = s.periodTotals(gctx, userID, current, topN)
		return err
	})
	g.Go(func() error {
		var err error
		prev, err = s.periodTotals(gctx, userID, previous, topN)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to aggregate periods", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to aggregate periods: %w", err)
	}

	cmp := analytics.ComparePeriods(cur, prev)
	return &cmp, nil
}

// Heatmap fetches the year once and buckets it in memory.
func (s *analyticsService) Heatmap(ctx context.Context, userID string, year int, filter domain.HeatmapFilter) (*domain.Heatmap, error) {
	if year < 1900 || year > 9999 {
		return nil, fmt.Errorf("%w: invalid year %d", apperrors.ErrValidation, year)
	}
	if filter == "" {
		filter = domain.HeatmapAll
	}
	if !filter.IsValid() {
		return nil, fmt.Errorf("%w: unknown heatmap filter '%s'", apperrors.ErrValidation, filter)
	}

	f := domain.TransactionFilter{
		UserID: userID,
		From:   time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	switch filter {
	case domain.HeatmapDebit:
		f.Types = []domain.TransactionType{domain.Debit}
	case domain.HeatmapCredit:
		f.Types = []domain.TransactionType{domain.Credit}
	}

	txs, err := s.txRepo.FindTransactions(ctx, f)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for heatmap",
			slog.String("user_id", userID),
			slog.Int("year", year))
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	hm := analytics.BuildHeatmap(year, filter, txs)
	s.LogDebug(ctx, "Heatmap built",
		slog.String("user_id", userID),
		slog.Int("year", year),
		slog.Int("transactions", len(txs)),
		slog.Int("active_days", hm.Stats.ActiveDays))
	return &hm, nil
}

// SpendingSummary reports velocity and month projections as of the service clock.
func (s *analyticsService) SpendingSummary(ctx context.Context, userID string) (*domain.SpendingSummary, error) {
	now := s.Now()
	window := analytics.SummaryWindow(now)

	var (
		txs        []domain.Transaction
		categories []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txRepo.FindTransactions(gctx, domain.TransactionFilter{UserID: userID, From: window.From, To: window.To})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.ListCategories(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load data for spending summary", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load spending data: %w", err)
	}

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}

	summary := analytics.BuildSpendingSummary(now, txs, names)
	return &summary, nil
}
