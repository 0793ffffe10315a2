package services

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// IngestionSvcFacade turns parser output into ledger rows.
type IngestionSvcFacade interface {
	// IngestTransactions normalizes, fingerprints and stores raw records for userID.
	// Records already present for the same statement are skipped.
	IngestTransactions(ctx context.Context, userID string, statementID *string, raws []domain.RawTransaction, opts domain.IngestOptions) (*domain.IngestResult, error)

	// IngestParseResult ingests a whole parser response. Failed or empty results are a no-op.
	IngestParseResult(ctx context.Context, userID string, statementID *string, result domain.ParseResult, opts domain.IngestOptions) (*domain.IngestResult, error)
}
