// Command ingest parses a bank statement through the parser service and stores its transactions.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/SscSPs/spend_ledger/internal/adapters/parser"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/SscSPs/spend_ledger/internal/platform/app"
	"github.com/SscSPs/spend_ledger/internal/platform/config"
)

type options struct {
	file           string
	userID         string
	bank           string
	password       string
	statementID    string
	autoCategorize bool
	minConfidence  string
	listBanks      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "", "statement file to import")
	flag.StringVar(&opts.userID, "user", "", "owner of the imported transactions")
	flag.StringVar(&opts.bank, "bank", "", "parser to use (auto-detected when empty)")
	flag.StringVar(&opts.password, "password", "", "password for encrypted statements")
	flag.StringVar(&opts.statementID, "statement", "", "statement id to attach the rows to")
	flag.BoolVar(&opts.autoCategorize, "auto-categorize", false, "classify new rows after import")
	flag.StringVar(&opts.minConfidence, "min-confidence", string(domain.ConfidenceMedium), "lowest confidence accepted by auto-categorize (low, medium, high)")
	flag.BoolVar(&opts.listBanks, "banks", false, "list the parsers supported by the parser service and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: middleware.ParseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = middleware.WithLogger(ctx, logger)

	if err := run(ctx, cfg, logger, opts); err != nil {
		logger.Error("Ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts options) error {
	if cfg.ParserURL == "" {
		return fmt.Errorf("PARSER_URL is not configured")
	}
	client := parser.NewClient(cfg.ParserURL, parser.WithTimeout(cfg.ParserTimeout))

	if opts.listBanks {
		banks, err := client.ListBanks(ctx)
		if err != nil {
			return err
		}
		return printJSON(banks)
	}

	if opts.file == "" || opts.userID == "" {
		return fmt.Errorf("both -file and -user are required")
	}
	minConfidence := domain.Confidence(opts.minConfidence)
	if !minConfidence.IsValid() {
		return fmt.Errorf("invalid -min-confidence %q", opts.minConfidence)
	}

	content, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}

	container, cleanup, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	parsed, err := client.ParseStatement(ctx, portssvc.StatementFile{
		Filename: filepath.Base(opts.file),
		Content:  content,
		Bank:     opts.bank,
		Password: opts.password,
	})
	if err != nil {
		return err
	}
	if !parsed.Success {
		return fmt.Errorf("parser could not read %s: %s", opts.file, parsed.ErrorMessage)
	}
	logger.Info("Statement parsed",
		slog.String("bank", parsed.Bank),
		slog.Int("transactions", len(parsed.Transactions)))

	var statementID *string
	if opts.statementID != "" {
		statementID = &opts.statementID
	}
	result, err := container.Ingestion.IngestParseResult(ctx, opts.userID, statementID, *parsed, domain.IngestOptions{
		AutoCategorize: opts.autoCategorize,
		MinConfidence:  minConfidence,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
