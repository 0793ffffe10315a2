package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	"github.com/SscSPs/spend_ledger/internal/core/ingestion"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/utils/batch"
	"github.com/google/uuid"
)

// ingestionService implements portssvc.IngestionSvcFacade
type ingestionService struct {
	BaseService
	txRepo     portsrepo.TransactionRepositoryFacade
	classifier portssvc.ClassificationSvc
	batchSize  int
}

// IngestionServiceOption is a functional option for configuring the ingestion service
type IngestionServiceOption func(*ingestionService)

// WithIngestionClassifier enables auto-categorization during ingestion.
func WithIngestionClassifier(classifier portssvc.ClassificationSvc) IngestionServiceOption {
	return func(s *ingestionService) {
		s.classifier = classifier
	}
}

// WithIngestionBatchSize sets how many rows are sent to the store per insert.
func WithIngestionBatchSize(size int) IngestionServiceOption {
	return func(s *ingestionService) {
		s.batchSize = size
	}
}

// WithIngestionClock overrides the time source used for audit fields.
func WithIngestionClock(clock func() time.Time) IngestionServiceOption {
	return func(s *ingestionService) {
		s.clock = clock
	}
}

// NewIngestionService creates a new ingestion service with the provided options
func NewIngestionService(txRepo portsrepo.TransactionRepositoryFacade, options ...IngestionServiceOption) portssvc.IngestionSvcFacade {
	svc := &ingestionService{
		txRepo:    txRepo,
		batchSize: batch.DefaultSize,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.IngestionSvcFacade = (*ingestionService)(nil)

// IngestParseResult ingests a parser response. Unsuccessful results leave the ledger untouched.
func (s *ingestionService) IngestParseResult(ctx context.Context, userID string, statementID *string, result domain.ParseResult, opts domain.IngestOptions) (*domain.IngestResult, error) {
	if !result.Success {
		s.LogInfo(ctx, "Parser reported failure, nothing to ingest",
			slog.String("user_id", userID),
			slog.String("bank", result.Bank),
			slog.String("parser_error", result.ErrorMessage))
		return &domain.IngestResult{}, nil
	}
	return s.IngestTransactions(ctx, userID, statementID, result.Transactions, opts)
}

// IngestTransactions stores raws for userID, skipping records already ingested for the statement.
func (s *ingestionService) IngestTransactions(ctx context.Context, userID string, statementID *string, raws []domain.RawTransaction, opts domain.IngestOptions) (*domain.IngestResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	result := &domain.IngestResult{Received: len(raws)}
	if len(raws) == 0 {
		return result, nil
	}

	for i, raw := range raws {
		if err := raw.Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", apperrors.ErrValidation, i, err)
		}
	}

	now := s.Now()
	seen := make(map[string]struct{}, len(raws))
	txs := make([]domain.Transaction, 0, len(raws))
	for _, raw := range raws {
		t := ingestion.ToTransaction(userID, statementID, raw)
		if _, dup := seen[t.Fingerprint]; dup {
			continue
		}
		seen[t.Fingerprint] = struct{}{}
		t.TransactionID = uuid.NewString()
		t.AuditFields = domain.NewAuditFields(userID, now)
		txs = append(txs, t)
	}

	if opts.AutoCategorize && s.classifier != nil {
		if _, err := s.classifier.AssignCategories(ctx, userID, txs, opts.MinConfidence, false); err != nil {
			s.LogError(ctx, err, "Failed to pre-categorize transactions", slog.String("user_id", userID))
			return nil, err
		}
	}

	categorized := make(map[string]bool, len(txs))
	for _, t := range txs {
		categorized[t.TransactionID] = !t.IsUncategorized()
	}

	for _, chunk := range batch.Chunks(txs, s.batchSize) {
		ids, err := s.txRepo.InsertTransactions(ctx, chunk)
		if err != nil {
			result.Skipped = result.Received - result.Inserted
			s.LogError(ctx, err, "Failed to insert transactions",
				slog.String("user_id", userID),
				slog.Int("inserted", result.Inserted))
			return result, fmt.Errorf("inserted %d of %d transactions: %w", result.Inserted, len(txs), err)
		}
		result.Inserted += len(ids)
		for _, id := range ids {
			if categorized[id] {
				result.Categorized++
			}
		}
	}
	result.Skipped = result.Received - result.Inserted

	s.LogInfo(ctx, "Transactions ingested",
		slog.String("user_id", userID),
		slog.Int("received", result.Received),
		slog.Int("inserted", result.Inserted),
		slog.Int("skipped", result.Skipped),
		slog.Int("categorized", result.Categorized))
	return result, nil
}
