package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/spend_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/spend_ledger/internal/models"
	"github.com/SscSPs/spend_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	selectBudgetFields = `
		budget_id, user_id, category_id, monthly_limit, alert_at_80, alert_at_100, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

	// The row keeps its original id and creation audit when the (user, category) pair already exists.
	upsertBudgetQuery = `
		INSERT INTO budgets (
			budget_id, user_id, category_id, monthly_limit, alert_at_80, alert_at_100, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT ON CONSTRAINT budgets_user_category_key DO UPDATE SET
			monthly_limit = EXCLUDED.monthly_limit,
			alert_at_80 = EXCLUDED.alert_at_80,
			alert_at_100 = EXCLUDED.alert_at_100,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
		RETURNING ` + selectBudgetFields + `;`
)

type PgxBudgetRepository struct {
	BaseRepository
}

// newPgxBudgetRepository creates a new repository for budgets.
func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func scanBudget(row rowScanner) (models.Budget, error) {
	var m models.Budget
	err := row.Scan(
		&m.BudgetID,
		&m.UserID,
		&m.CategoryID,
		&m.MonthlyLimit,
		&m.AlertAt80,
		&m.AlertAt100,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindBudgetByID retrieves a budget by its ID.
func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	query := "SELECT " + selectBudgetFields + " FROM budgets WHERE budget_id = $1;"
	m, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget by ID %s: %w", budgetID, err)
	}
	b := mapping.ToDomainBudget(m)
	return &b, nil
}

// ListBudgets returns the budgets of userID ordered by creation.
func (r *PgxBudgetRepository) ListBudgets(ctx context.Context, userID string, activeOnly bool) ([]domain.Budget, error) {
	query := "SELECT " + selectBudgetFields + " FROM budgets WHERE user_id = $1"
	if activeOnly {
		query += " AND is_active"
	}
	query += " ORDER BY created_at ASC, budget_id ASC;"

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets for user %s: %w", userID, err)
	}
	defer rows.Close()

	out := []domain.Budget{}
	for rows.Next() {
		m, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget row: %w", err)
		}
		out = append(out, mapping.ToDomainBudget(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget rows: %w", err)
	}
	return out, nil
}

// UpsertBudget inserts the budget or updates the existing one for its (user, category).
func (r *PgxBudgetRepository) UpsertBudget(ctx context.Context, budget domain.Budget) (*domain.Budget, error) {
	in := mapping.ToModelBudget(budget)
	m, err := scanBudget(r.Pool.QueryRow(ctx, upsertBudgetQuery,
		in.BudgetID,
		in.UserID,
		in.CategoryID,
		in.MonthlyLimit,
		in.AlertAt80,
		in.AlertAt100,
		in.IsActive,
		in.CreatedAt,
		in.CreatedBy,
		in.LastUpdatedAt,
		in.LastUpdatedBy,
	))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, in.CategoryID)
		}
		return nil, fmt.Errorf("failed to upsert budget for category %s: %w", in.CategoryID, err)
	}
	b := mapping.ToDomainBudget(m)
	return &b, nil
}

// DeleteBudget removes a budget by its ID.
func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, "DELETE FROM budgets WHERE budget_id = $1;", budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
