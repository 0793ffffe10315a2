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
	categoriesTable = "categories"

	selectCategoryFields = `
		category_id, user_id, name, icon, color,
		created_at, created_by, last_updated_at, last_updated_by`

	findCategoryByIDQuery = `
		SELECT ` + selectCategoryFields + `
		FROM ` + categoriesTable + `
		WHERE category_id = $1;`

	// A user's own category shadows a system category of the same name.
	findCategoryByNameQuery = `
		SELECT ` + selectCategoryFields + `
		FROM ` + categoriesTable + `
		WHERE (user_id = $1 OR user_id IS NULL) AND LOWER(name) = LOWER($2)
		ORDER BY user_id NULLS LAST
		LIMIT 1;`

	listCategoriesQuery = `
		SELECT ` + selectCategoryFields + `
		FROM ` + categoriesTable + `
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY name ASC, user_id NULLS LAST;`

	insertCategoryQuery = `
		INSERT INTO ` + categoriesTable + ` (
			category_id, user_id, name, icon, color,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for categories.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row rowScanner) (models.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.UserID,
		&m.Name,
		&m.Icon,
		&m.Color,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxCategoryRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	m, err := scanCategory(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	c := mapping.ToDomainCategory(m)
	return &c, nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	return r.findOne(ctx, findCategoryByIDQuery, categoryID)
}

// FindCategoryByName retrieves the category named name that userID can see.
func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, userID, name string) (*domain.Category, error) {
	return r.findOne(ctx, findCategoryByNameQuery, userID, name)
}

// ListCategories returns the user's categories plus the system ones.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	rows, err := r.Pool.Query(ctx, listCategoriesQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		out = append(out, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return out, nil
}

// CreateCategory inserts a new category.
func (r *PgxCategoryRepository) CreateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	_, err := r.Pool.Exec(ctx, insertCategoryQuery,
		m.CategoryID,
		m.UserID,
		m.Name,
		m.Icon,
		m.Color,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: category '%s' already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save category %s: %w", m.CategoryID, err)
	}
	return nil
}
