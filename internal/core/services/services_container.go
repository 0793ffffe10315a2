package services

import (
	"github.com/SscSPs/spend_ledger/internal/core/categorization"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, classifier *categorization.Classifier, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Categorization first since ingestion uses it for auto-categorization
	container.Categorization = NewCategorizationService(
		classifier,
		repos.TransactionRepo,
		repos.CategoryRepo,
		WithCategorizationBatchSize(cfg.WriteBatchSize),
	)

	container.Ingestion = NewIngestionService(
		repos.TransactionRepo,
		WithIngestionClassifier(container.Categorization),
		WithIngestionBatchSize(cfg.WriteBatchSize),
	)

	container.Budget = NewBudgetService(
		repos.BudgetRepo,
		repos.CategoryRepo,
		repos.TransactionRepo,
		WithBudgetBatchSize(cfg.WriteBatchSize),
	)

	container.Analytics = NewAnalyticsService(repos.TransactionRepo, repos.CategoryRepo)

	return container
}
