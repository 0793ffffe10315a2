package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// --- Mock IngestionService ---
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) IngestTransactions(ctx context.Context, userID string, statementID *string, raws []domain.RawTransaction, opts domain.IngestOptions) (*domain.IngestResult, error) {
	args := m.Called(ctx, userID, statementID, raws, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestResult), args.Error(1)
}

func (m *MockIngestionService) IngestParseResult(ctx context.Context, userID string, statementID *string, result domain.ParseResult, opts domain.IngestOptions) (*domain.IngestResult, error) {
	args := m.Called(ctx, userID, statementID, result, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IngestResult), args.Error(1)
}

var _ portssvc.IngestionSvcFacade = (*MockIngestionService)(nil)

// --- Mock CategorizationService ---
type MockCategorizationService struct {
	mock.Mock
}

func (m *MockCategorizationService) ResolveCategory(ctx context.Context, userID, name string) (string, error) {
	args := m.Called(ctx, userID, name)
	return args.String(0), args.Error(1)
}

func (m *MockCategorizationService) ResolveCategories(ctx context.Context, userID string, names []string) (map[string]string, error) {
	args := m.Called(ctx, userID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCategorizationService) Classify(ctx context.Context, description string) domain.Classification {
	args := m.Called(ctx, description)
	return args.Get(0).(domain.Classification)
}

func (m *MockCategorizationService) AssignCategories(ctx context.Context, userID string, txs []domain.Transaction, minConfidence domain.Confidence, overwrite bool) ([]int, error) {
	args := m.Called(ctx, userID, txs, minConfidence, overwrite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockCategorizationService) CategorizeAll(ctx context.Context, userID string, minConfidence domain.Confidence, overwrite bool) (*domain.CategorizationResult, error) {
	args := m.Called(ctx, userID, minConfidence, overwrite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategorizationResult), args.Error(1)
}

func (m *MockCategorizationService) SuggestPatterns(ctx context.Context, userID string) ([]domain.PatternCandidate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PatternCandidate), args.Error(1)
}

func (m *MockCategorizationService) PreviewPattern(ctx context.Context, q domain.PatternQuery, limit int, nextToken *string) (*domain.PatternPreview, error) {
	args := m.Called(ctx, q, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatternPreview), args.Error(1)
}

func (m *MockCategorizationService) ApplyPattern(ctx context.Context, q domain.PatternQuery, categoryID string) (*domain.PatternApplyResult, error) {
	args := m.Called(ctx, q, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatternApplyResult), args.Error(1)
}

var _ portssvc.CategorizationSvcFacade = (*MockCategorizationService)(nil)

// --- Mock BudgetService ---
type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) UpsertBudget(ctx context.Context, userID string, in domain.BudgetInput) (*domain.Budget, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) ApplyBudgets(ctx context.Context, userID string, in []domain.BudgetInput) (*domain.BulkBudgetResult, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkBudgetResult), args.Error(1)
}

func (m *MockBudgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	args := m.Called(ctx, userID, budgetID)
	return args.Error(0)
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetService) BudgetStatus(ctx context.Context, userID string, month time.Time) ([]domain.BudgetStatus, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetStatus), args.Error(1)
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

// --- Mock AnalyticsService ---
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) ComparePeriods(ctx context.Context, userID string, current, previous domain.Period, topN int) (*domain.PeriodComparison, error) {
	args := m.Called(ctx, userID, current, previous, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodComparison), args.Error(1)
}

func (m *MockAnalyticsService) Heatmap(ctx context.Context, userID string, year int, filter domain.HeatmapFilter) (*domain.Heatmap, error) {
	args := m.Called(ctx, userID, year, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Heatmap), args.Error(1)
}

func (m *MockAnalyticsService) SpendingSummary(ctx context.Context, userID string) (*domain.SpendingSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SpendingSummary), args.Error(1)
}

var _ portssvc.AnalyticsService = (*MockAnalyticsService)(nil)

// --- Mock StatementParser ---
type MockStatementParser struct {
	mock.Mock
}

func (m *MockStatementParser) ParseStatement(ctx context.Context, file portssvc.StatementFile) (*domain.ParseResult, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResult), args.Error(1)
}

var _ portssvc.StatementParser = (*MockStatementParser)(nil)
