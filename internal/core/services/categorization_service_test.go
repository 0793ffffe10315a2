package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/categorization"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/SscSPs/spend_ledger/internal/core/services"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CategorizationServiceTestSuite struct {
	suite.Suite
	txRepo       *MockTransactionRepository
	categoryRepo *MockCategoryRepository
	service      portssvc.CategorizationSvcFacade
}

func (suite *CategorizationServiceTestSuite) SetupTest() {
	table, err := categorization.DefaultRules()
	suite.Require().NoError(err)
	classifier, err := categorization.NewClassifier(table)
	suite.Require().NoError(err)

	suite.txRepo = new(MockTransactionRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.service = services.NewCategorizationService(classifier, suite.txRepo, suite.categoryRepo,
		services.WithCategorizationBatchSize(1))
}

func (suite *CategorizationServiceTestSuite) TearDownTest() {
	suite.txRepo.AssertExpectations(suite.T())
	suite.categoryRepo.AssertExpectations(suite.T())
}

func (suite *CategorizationServiceTestSuite) TestResolveCategory_Existing() {
	ctx := context.Background()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Saude").
		Return(&domain.Category{CategoryID: "cat-1", Name: "Saude"}, nil).Once()

	id, err := suite.service.ResolveCategory(ctx, "u1", "  Saude ")

	suite.Require().NoError(err)
	suite.Equal("cat-1", id)
	suite.categoryRepo.AssertNotCalled(suite.T(), "CreateCategory", mock.Anything, mock.Anything)
}

func (suite *CategorizationServiceTestSuite) TestResolveCategory_CreatesOnceThenReuses() {
	ctx := context.Background()
	var created domain.Category

	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Saude").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.categoryRepo.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c domain.Category) bool {
		return c.Name == "Saude" && c.UserID != nil && *c.UserID == "u1" && c.Icon == nil && c.Color == nil
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(domain.Category)
	}).Return(nil).Once()

	first, err := suite.service.ResolveCategory(ctx, "u1", "Saude")
	suite.Require().NoError(err)
	suite.Equal(created.CategoryID, first)

	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Saude").
		Return(&created, nil).Once()

	second, err := suite.service.ResolveCategory(ctx, "u1", "Saude")
	suite.Require().NoError(err)
	suite.Equal(first, second)
}

func (suite *CategorizationServiceTestSuite) TestResolveCategory_RetriesDuplicateRace() {
	ctx := context.Background()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Lazer").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.categoryRepo.On("CreateCategory", mock.Anything, mock.AnythingOfType("domain.Category")).
		Return(apperrors.ErrDuplicate).Once()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Lazer").
		Return(&domain.Category{CategoryID: "winner", Name: "Lazer"}, nil).Once()

	id, err := suite.service.ResolveCategory(ctx, "u1", "Lazer")

	suite.Require().NoError(err)
	suite.Equal("winner", id)
}

func (suite *CategorizationServiceTestSuite) TestResolveCategory_ZeroAttemptsKeepsDefault() {
	table, err := categorization.DefaultRules()
	suite.Require().NoError(err)
	classifier, err := categorization.NewClassifier(table)
	suite.Require().NoError(err)
	service := services.NewCategorizationService(classifier, suite.txRepo, suite.categoryRepo,
		services.WithResolveAttempts(0))

	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Saude").
		Return(&domain.Category{CategoryID: "sys-saude", Name: "Saude"}, nil).Once()

	id, err := service.ResolveCategory(context.Background(), "u1", "Saude")

	suite.Require().NoError(err)
	suite.Equal("sys-saude", id)
}

func (suite *CategorizationServiceTestSuite) TestResolveCategory_GivesUpAfterConfiguredAttempts() {
	table, err := categorization.DefaultRules()
	suite.Require().NoError(err)
	classifier, err := categorization.NewClassifier(table)
	suite.Require().NoError(err)
	service := services.NewCategorizationService(classifier, suite.txRepo, suite.categoryRepo,
		services.WithResolveAttempts(2))

	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Lazer").
		Return(nil, apperrors.ErrNotFound).Twice()
	suite.categoryRepo.On("CreateCategory", mock.Anything, mock.AnythingOfType("domain.Category")).
		Return(apperrors.ErrDuplicate).Twice()

	id, err := service.ResolveCategory(context.Background(), "u1", "Lazer")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Empty(id)
}

func (suite *CategorizationServiceTestSuite) TestResolveCategory_Validation() {
	_, err := suite.service.ResolveCategory(context.Background(), "u1", "  ")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategorizationServiceTestSuite) TestResolveCategories_OncePerDistinctName() {
	ctx := context.Background()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Saude").
		Return(&domain.Category{CategoryID: "c-saude"}, nil).Once()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Lazer").
		Return(&domain.Category{CategoryID: "c-lazer"}, nil).Once()

	got, err := suite.service.ResolveCategories(ctx, "u1", []string{"Saude", "SAUDE", "Lazer", "saude"})

	suite.Require().NoError(err)
	suite.Equal(map[string]string{"saude": "c-saude", "lazer": "c-lazer"}, got)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_RespectsMinConfidence() {
	ctx := context.Background()
	txs := []domain.Transaction{
		{TransactionID: "t1", Description: "Pagamento IFOOD LTDA"},
		{TransactionID: "t2", Description: "PIX ENVIADO FULANO"},
		{TransactionID: "t3", Description: "XPTO COMERCIO"},
		{TransactionID: "t4", Description: "IFOOD *LANCHE"},
	}
	suite.txRepo.On("FindTransactions", mock.Anything, domain.TransactionFilter{UserID: "u1", UncategorizedOnly: true}).
		Return(txs, nil).Once()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Alimentacao").
		Return(&domain.Category{CategoryID: "cat-food"}, nil).Once()
	suite.txRepo.On("UpdateTransactionCategory", mock.Anything, "u1", "t1", "cat-food").Return(nil).Once()
	suite.txRepo.On("UpdateTransactionCategory", mock.Anything, "u1", "t4", "cat-food").Return(nil).Once()

	res, err := suite.service.CategorizeAll(ctx, "u1", domain.ConfidenceMedium, false)

	suite.Require().NoError(err)
	suite.Equal(domain.CategorizationResult{
		Processed:          4,
		Matched:            3,
		Updated:            2,
		BelowConfidence:    1,
		CategoriesResolved: 1,
	}, *res)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_ReportsPartialProgress() {
	ctx := context.Background()
	txs := []domain.Transaction{
		{TransactionID: "t1", Description: "NETFLIX.COM"},
		{TransactionID: "t2", Description: "SPOTIFY"},
	}
	boom := errors.New("connection reset")
	suite.txRepo.On("FindTransactions", mock.Anything, mock.Anything).Return(txs, nil).Once()
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Assinaturas").
		Return(&domain.Category{CategoryID: "cat-subs"}, nil).Once()
	suite.txRepo.On("UpdateTransactionCategory", mock.Anything, "u1", "t1", "cat-subs").Return(nil).Once()
	suite.txRepo.On("UpdateTransactionCategory", mock.Anything, "u1", "t2", "cat-subs").Return(boom).Once()

	res, err := suite.service.CategorizeAll(ctx, "u1", "", false)

	suite.ErrorIs(err, boom)
	suite.Require().NotNil(res)
	suite.Equal(1, res.Updated)
}

func (suite *CategorizationServiceTestSuite) TestCategorizeAll_InvalidConfidence() {
	suite.txRepo.On("FindTransactions", mock.Anything, mock.Anything).Return([]domain.Transaction{}, nil).Once()

	_, err := suite.service.CategorizeAll(context.Background(), "u1", "certain", false)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategorizationServiceTestSuite) TestAssignCategories_SkipsAlreadyCategorized() {
	ctx := context.Background()
	txs := []domain.Transaction{
		{TransactionID: "t1", Description: "UBER TRIP", CategoryID: strPtr("mine")},
		{TransactionID: "t2", Description: "UBER TRIP"},
	}
	suite.categoryRepo.On("FindCategoryByName", mock.Anything, "u1", "Transporte").
		Return(&domain.Category{CategoryID: "cat-car"}, nil).Once()

	changed, err := suite.service.AssignCategories(ctx, "u1", txs, domain.ConfidenceHigh, false)

	suite.Require().NoError(err)
	suite.Equal([]int{1}, changed)
	suite.Equal("mine", *txs[0].CategoryID)
	suite.Equal("cat-car", *txs[1].CategoryID)
}

func (suite *CategorizationServiceTestSuite) TestSuggestPatterns() {
	suite.txRepo.On("ListUncategorizedDescriptions", mock.Anything, "u1").
		Return([]string{"UBER *TRIP", "UBER *TRIP 2", "UBER TRIP", "NETFLIX.COM"}, nil).Once()

	got, err := suite.service.SuggestPatterns(context.Background(), "u1")

	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("UBER", got[0].Prefix)
	suite.Equal(3, got[0].Count)
}

func (suite *CategorizationServiceTestSuite) TestPreviewPattern() {
	q := domain.PatternQuery{UserID: "u1", Prefix: "uber"}
	page := []domain.Transaction{{TransactionID: "t9"}}
	next := strPtr("token")
	suite.txRepo.On("ListByDescriptionPrefix", mock.Anything, q, 20, (*string)(nil)).Return(page, next, nil).Once()
	suite.txRepo.On("SummarizeDescriptionPrefix", mock.Anything, q).Return(42, decimal.NewFromInt(-1234), nil).Once()

	got, err := suite.service.PreviewPattern(context.Background(), domain.PatternQuery{UserID: "u1", Prefix: " uber "}, 0, nil)

	suite.Require().NoError(err)
	suite.Equal(page, got.Transactions)
	suite.Equal(42, got.TotalCount)
	suite.True(decimal.NewFromInt(-1234).Equal(got.TotalAmount))
	suite.Equal(next, got.NextToken)
}

func (suite *CategorizationServiceTestSuite) TestPreviewPattern_Validation() {
	_, err := suite.service.PreviewPattern(context.Background(), domain.PatternQuery{UserID: "u1"}, 10, nil)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.PreviewPattern(context.Background(), domain.PatternQuery{UserID: "u1", Prefix: "X"}, 10, strPtr("garbage"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategorizationServiceTestSuite) TestApplyPattern_Success() {
	q := domain.PatternQuery{UserID: "u1", Prefix: "UBER"}
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, "sys").
		Return(&domain.Category{CategoryID: "sys", Name: "Transporte"}, nil).Once()
	suite.txRepo.On("ListIDsByDescriptionPrefix", mock.Anything, q).Return([]string{"a", "b"}, nil).Once()
	suite.txRepo.On("UpdateTransactionCategory", mock.Anything, "u1", "a", "sys").Return(nil).Once()
	suite.txRepo.On("UpdateTransactionCategory", mock.Anything, "u1", "b", "sys").Return(nil).Once()

	got, err := suite.service.ApplyPattern(context.Background(), q, "sys")

	suite.Require().NoError(err)
	suite.Equal(domain.PatternApplyResult{Matched: 2, Updated: 2}, *got)
}

func (suite *CategorizationServiceTestSuite) TestApplyPattern_ForeignCategory() {
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, "theirs").
		Return(&domain.Category{CategoryID: "theirs", UserID: strPtr("u2")}, nil).Once()

	_, err := suite.service.ApplyPattern(context.Background(), domain.PatternQuery{UserID: "u1", Prefix: "UBER"}, "theirs")

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.txRepo.AssertNotCalled(suite.T(), "ListIDsByDescriptionPrefix", mock.Anything, mock.Anything)
}

func (suite *CategorizationServiceTestSuite) TestApplyPattern_MissingCategory() {
	suite.categoryRepo.On("FindCategoryByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ApplyPattern(context.Background(), domain.PatternQuery{UserID: "u1", Prefix: "UBER"}, "nope")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCategorizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CategorizationServiceTestSuite))
}
