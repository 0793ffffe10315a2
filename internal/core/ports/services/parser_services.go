package services

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// StatementFile is an uploaded statement waiting to be parsed.
type StatementFile struct {
	Filename string
	Content  []byte
	// Bank selects the parser; empty means auto-detect.
	Bank     string
	Password string
}

// StatementParser turns a statement file into parser records.
type StatementParser interface {
	ParseStatement(ctx context.Context, file StatementFile) (*domain.ParseResult, error)
}
