package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/spend_ledger/internal/models"
	"github.com/SscSPs/spend_ledger/internal/utils/mapping"
	"github.com/SscSPs/spend_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	selectTransactionFields = `
		transaction_id, user_id, statement_id, date, post_date, original_description, description,
		amount, transaction_type, installment_current, installment_total, is_international,
		fingerprint, category_id, created_at, created_by, last_updated_at, last_updated_by`

	insertTransactionQuery = `
		INSERT INTO transactions (
			transaction_id, user_id, statement_id, date, post_date, original_description, description,
			amount, transaction_type, installment_current, installment_total, is_international,
			fingerprint, category_id, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT ON CONSTRAINT transactions_dedupe_key DO NOTHING
		RETURNING transaction_id;`

	updateTransactionCategoryQuery = `
		UPDATE transactions
		SET category_id = $3, last_updated_at = NOW(), last_updated_by = $1
		WHERE transaction_id = $2 AND user_id = $1;`
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.StatementID,
		&m.Date,
		&m.PostDate,
		&m.OriginalDescription,
		&m.Description,
		&m.Amount,
		&m.TransactionType,
		&m.InstallmentCurrent,
		&m.InstallmentTotal,
		&m.IsInternational,
		&m.Fingerprint,
		&m.CategoryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return out, nil
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func (w *whereBuilder) next() string {
	return "$" + strconv.Itoa(len(w.args)+1)
}

func prefixWhere(q domain.PatternQuery) *whereBuilder {
	w := &whereBuilder{}
	w.add("user_id = ?", q.UserID)
	w.add(`description ILIKE ? ESCAPE '\'`, prefixPattern(q.Prefix))
	if !q.IncludeCategorized {
		w.add("category_id IS NULL")
	}
	return w
}

// FindTransactions returns the transactions matching filter, oldest first.
func (r *PgxTransactionRepository) FindTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	w := &whereBuilder{}
	w.add("user_id = ?", filter.UserID)
	if !filter.From.IsZero() {
		w.add("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		w.add("date < ?", filter.To)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		w.add("transaction_type = ANY(?)", types)
	}
	if filter.UncategorizedOnly {
		w.add("category_id IS NULL")
	}

	query := "SELECT " + selectTransactionFields + " FROM transactions " + w.String() + " ORDER BY date ASC, transaction_id ASC;"
	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %s: %w", filter.UserID, err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// ListUncategorizedDescriptions returns descriptions in ingestion order so pattern examples are stable.
func (r *PgxTransactionRepository) ListUncategorizedDescriptions(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT description
		FROM transactions
		WHERE user_id = $1 AND category_id IS NULL
		ORDER BY date ASC, transaction_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized descriptions for user %s: %w", userID, err)
	}
	descriptions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read uncategorized descriptions: %w", err)
	}
	return descriptions, nil
}

// ListByDescriptionPrefix pages through prefix matches newest first using a (date, id) keyset.
func (r *PgxTransactionRepository) ListByDescriptionPrefix(ctx context.Context, q domain.PatternQuery, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether there is a next page.
	fetchLimit := limit + 1

	w := prefixWhere(q)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		w.add("(date, transaction_id) < (?, ?)", cursor.Date, cursor.ID)
	}

	query := "SELECT " + selectTransactionFields + " FROM transactions " + w.String() +
		" ORDER BY date DESC, transaction_id DESC LIMIT " + w.next() + ";"
	args := append(w.args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions by prefix '%s': %w", q.Prefix, err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.Date, last.TransactionID)
		nextTokenVal = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainTransactionSlice(ms), nextTokenVal, nil
}

// SummarizeDescriptionPrefix counts and sums every prefix match.
func (r *PgxTransactionRepository) SummarizeDescriptionPrefix(ctx context.Context, q domain.PatternQuery) (int, decimal.Decimal, error) {
	w := prefixWhere(q)
	query := "SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM transactions " + w.String() + ";"

	var count int
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, w.args...).Scan(&count, &total); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to summarize prefix '%s': %w", q.Prefix, err)
	}
	return count, total, nil
}

// ListIDsByDescriptionPrefix returns the id of every prefix match.
func (r *PgxTransactionRepository) ListIDsByDescriptionPrefix(ctx context.Context, q domain.PatternQuery) ([]string, error) {
	w := prefixWhere(q)
	query := "SELECT transaction_id FROM transactions " + w.String() + " ORDER BY date DESC, transaction_id DESC;"

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ids for prefix '%s': %w", q.Prefix, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read ids for prefix '%s': %w", q.Prefix, err)
	}
	return ids, nil
}

// SumByType aggregates a window per transaction type.
func (r *PgxTransactionRepository) SumByType(ctx context.Context, userID string, period domain.Period) ([]domain.TypeTotal, error) {
	query := `
		SELECT transaction_type, COALESCE(SUM(ABS(amount)), 0), COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY transaction_type
		ORDER BY transaction_type;
	`
	rows, err := r.Pool.Query(ctx, query, userID, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions by type: %w", err)
	}
	defer rows.Close()

	var out []domain.TypeTotal
	for rows.Next() {
		var tt domain.TypeTotal
		var txType string
		if err := rows.Scan(&txType, &tt.Total, &tt.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type total: %w", err)
		}
		tt.Type = domain.TransactionType(txType)
		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type totals: %w", err)
	}
	return out, nil
}

// SumDebitsByCategory aggregates a window's categorized debits, largest first.
func (r *PgxTransactionRepository) SumDebitsByCategory(ctx context.Context, userID string, period domain.Period) ([]domain.CategoryAmount, error) {
	query := `
		SELECT t.category_id, COALESCE(c.name, ''), SUM(ABS(t.amount)) AS total, COUNT(*)
		FROM transactions t
		LEFT JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date < $3
		  AND t.transaction_type = 'DEBIT' AND t.category_id IS NOT NULL
		GROUP BY t.category_id, c.name
		ORDER BY total DESC, c.name ASC;
	`
	rows, err := r.Pool.Query(ctx, query, userID, period.From, period.To)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debits by category: %w", err)
	}
	defer rows.Close()

	var out []domain.CategoryAmount
	for rows.Next() {
		var ca domain.CategoryAmount
		if err := rows.Scan(&ca.CategoryID, &ca.CategoryName, &ca.Total, &ca.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		out = append(out, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}
	return out, nil
}

// InsertTransactions inserts txs in one database transaction. Rows that collide
// on (user, statement, fingerprint) are skipped and their ids are not returned.
func (r *PgxTransactionRepository) InsertTransactions(ctx context.Context, txs []domain.Transaction) ([]string, error) {
	if len(txs) == 0 {
		return []string{}, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, t := range txs {
		m := mapping.ToModelTransaction(t)
		batch.Queue(insertTransactionQuery,
			m.TransactionID,
			m.UserID,
			m.StatementID,
			m.Date,
			m.PostDate,
			m.OriginalDescription,
			m.Description,
			m.Amount,
			string(m.TransactionType),
			m.InstallmentCurrent,
			m.InstallmentTotal,
			m.IsInternational,
			m.Fingerprint,
			m.CategoryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := make([]string, 0, len(txs))
	for range txs {
		var id string
		err := br.QueryRow().Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			_ = br.Close()
			if pgErrorCode(err) == pgForeignKeyViolation {
				return nil, fmt.Errorf("%w: unknown category on inserted transaction", apperrors.ErrValidation)
			}
			return nil, apperrors.NewAppError(500, "failed to insert transaction batch", err)
		}
		inserted = append(inserted, id)
	}
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to close transaction batch", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return inserted, nil
}

// UpdateTransactionCategory sets the category of a transaction owned by userID.
func (r *PgxTransactionRepository) UpdateTransactionCategory(ctx context.Context, userID, transactionID, categoryID string) error {
	tag, err := r.Pool.Exec(ctx, updateTransactionCategoryQuery, userID, transactionID, categoryID)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, categoryID)
		}
		return fmt.Errorf("failed to update category of transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}
