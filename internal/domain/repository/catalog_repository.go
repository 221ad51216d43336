package repository

import (
	"context"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/google/uuid"
)

// MenuCategoryRepository defines the interface for menu category data operations
type MenuCategoryRepository interface {
	Create(ctx context.Context, category *entity.MenuCategory) error
	GetByID(ctx context.Context, id string) (*entity.MenuCategory, error)
	Update(ctx context.Context, category *entity.MenuCategory) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.MenuCategory, error)
	// ReplaceAll swaps the whole category set, used when restoring defaults
	ReplaceAll(ctx context.Context, categories []entity.MenuCategory) error
}

// MenuItemRepository defines the interface for menu item data operations
type MenuItemRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *MenuItemFilterParams) ([]entity.MenuItem, error)
	// ClearCategory blanks the category of every item that points at categoryID
	ClearCategory(ctx context.Context, categoryID string) error
	ReplaceAll(ctx context.Context, items []entity.MenuItem) error
}

// MenuItemFilterParams contains filtering parameters for menu item queries
type MenuItemFilterParams struct {
	CategoryID string
	ActiveOnly bool
	Search     string
}

// ExpenseCategoryRepository defines the interface for expense category data operations
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, category *entity.ExpenseCategory) error
	GetByID(ctx context.Context, id string) (*entity.ExpenseCategory, error)
	Update(ctx context.Context, category *entity.ExpenseCategory) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]entity.ExpenseCategory, error)
	ReplaceAll(ctx context.Context, categories []entity.ExpenseCategory) error
}
