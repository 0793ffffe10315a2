package repositories

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read and aggregate operations over ledger transactions.
type TransactionReader interface {
	// FindTransactions returns every transaction matching filter, oldest first.
	FindTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// ListUncategorizedDescriptions returns the description of every uncategorized transaction of a user.
	ListUncategorizedDescriptions(ctx context.Context, userID string) ([]string, error)

	// ListByDescriptionPrefix returns one page of transactions whose description starts with
	// the query prefix (case-insensitive), newest first, and a token for the next page.
	ListByDescriptionPrefix(ctx context.Context, q domain.PatternQuery, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SummarizeDescriptionPrefix counts and sums every transaction matching the query.
	SummarizeDescriptionPrefix(ctx context.Context, q domain.PatternQuery) (int, decimal.Decimal, error)

	// ListIDsByDescriptionPrefix returns the ids of every transaction matching the query.
	ListIDsByDescriptionPrefix(ctx context.Context, q domain.PatternQuery) ([]string, error)

	// SumByType groups a window by transaction type. Totals are unsigned.
	SumByType(ctx context.Context, userID string, period domain.Period) ([]domain.TypeTotal, error)

	// SumDebitsByCategory groups a window's categorized debits by category, largest first.
	SumDebitsByCategory(ctx context.Context, userID string, period domain.Period) ([]domain.CategoryAmount, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// InsertTransactions stores txs, skipping rows whose (user, statement, fingerprint)
	// already exists. It returns the ids of the rows actually inserted.
	InsertTransactions(ctx context.Context, txs []domain.Transaction) ([]string, error)

	// UpdateTransactionCategory sets the category of one transaction owned by userID.
	UpdateTransactionCategory(ctx context.Context, userID, transactionID, categoryID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
