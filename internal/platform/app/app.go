// Package app assembles the ledger services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/spend_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/spend_ledger/internal/adapters/parser"
	"github.com/SscSPs/spend_ledger/internal/core/categorization"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/core/services"
	"github.com/SscSPs/spend_ledger/internal/platform/config"
	"github.com/SscSPs/spend_ledger/pkg/database"
)

// LoadClassifier builds the keyword classifier from RULES_FILE, or the embedded table when unset.
func LoadClassifier(cfg *config.Config) (*categorization.Classifier, error) {
	var (
		table *categorization.RuleTable
		err   error
	)
	if cfg.RulesFile != "" {
		table, err = categorization.LoadRulesFile(cfg.RulesFile)
	} else {
		table, err = categorization.DefaultRules()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load classification rules: %w", err)
	}
	return categorization.NewClassifier(table)
}

// Build connects to the database, applies migrations when enabled and wires every service.
// The returned func releases the pool.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*portssvc.ServiceContainer, func(), error) {
	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, pgsql.Migrations, "migrations", logger); err != nil {
			return nil, nil, err
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { database.ClosePgxPool(pool) }

	classifier, err := LoadClassifier(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Info("Classifier ready", slog.Int("categories", len(classifier.CategoryNames())))

	container := services.NewServiceContainer(cfg, classifier, pgsql.NewRepositoryProvider(pool))
	if cfg.ParserURL != "" {
		container.Parser = parser.NewClient(cfg.ParserURL, parser.WithTimeout(cfg.ParserTimeout))
	}
	return container, cleanup, nil
}
