package repositories

import (
	"context"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
)

// CategoryReader defines read operations for categories.
type CategoryReader interface {
	// FindCategoryByID returns apperrors.ErrNotFound when no category has the id.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoryByName matches name case-insensitively among categories owned by
	// userID or shared by everyone, preferring the user's own.
	FindCategoryByName(ctx context.Context, userID, name string) (*domain.Category, error)

	// ListCategories returns the categories visible to userID.
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for categories.
type CategoryWriter interface {
	// CreateCategory returns apperrors.ErrDuplicate when the owner already has the name.
	CreateCategory(ctx context.Context, category domain.Category) error
}

// CategoryRepositoryFacade combines all category repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
