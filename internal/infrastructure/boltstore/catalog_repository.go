package boltstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

type menuCategoryRepository struct {
	db *bbolt.DB
}

// NewMenuCategoryRepository creates a bolt-backed menu category repository
func NewMenuCategoryRepository(db *bbolt.DB) repository.MenuCategoryRepository {
	return &menuCategoryRepository{db: db}
}

func (r *menuCategoryRepository) Create(_ context.Context, category *entity.MenuCategory) error {
	now := time.Now()
	category.CreatedAt, category.UpdatedAt = now, now
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketMenuCategories, []byte(category.ID), category)
	})
}

func (r *menuCategoryRepository) GetByID(_ context.Context, id string) (*entity.MenuCategory, error) {
	var out *entity.MenuCategory
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = get[entity.MenuCategory](tx, database.BucketMenuCategories, []byte(id))
		return err
	})
	return out, err
}

func (r *menuCategoryRepository) Update(_ context.Context, category *entity.MenuCategory) error {
	category.UpdatedAt = time.Now()
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketMenuCategories, []byte(category.ID), category)
	})
}

func (r *menuCategoryRepository) Delete(_ context.Context, id string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(database.BucketMenuCategories).Delete([]byte(id))
	})
}

func (r *menuCategoryRepository) List(_ context.Context) ([]entity.MenuCategory, error) {
	var out []entity.MenuCategory
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = list[entity.MenuCategory](tx, database.BucketMenuCategories, nil)
		return err
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *menuCategoryRepository) ReplaceAll(_ context.Context, categories []entity.MenuCategory) error {
	now := time.Now()
	for i := range categories {
		categories[i].CreatedAt = now.Add(time.Duration(i))
		categories[i].UpdatedAt = now
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return replaceAll(tx, database.BucketMenuCategories, categories, func(c *entity.MenuCategory) []byte { return []byte(c.ID) })
	})
}

type menuItemRepository struct {
	db *bbolt.DB
}

// NewMenuItemRepository creates a bolt-backed menu item repository
func NewMenuItemRepository(db *bbolt.DB) repository.MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(_ context.Context, item *entity.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt, item.UpdatedAt = now, now
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketMenuItems, item.ID[:], item)
	})
}

func (r *menuItemRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	var out *entity.MenuItem
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = get[entity.MenuItem](tx, database.BucketMenuItems, id[:])
		return err
	})
	return out, err
}

func (r *menuItemRepository) Update(_ context.Context, item *entity.MenuItem) error {
	item.UpdatedAt = time.Now()
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketMenuItems, item.ID[:], item)
	})
}

func (r *menuItemRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(database.BucketMenuItems).Delete(id[:])
	})
}

func (r *menuItemRepository) List(_ context.Context, params *repository.MenuItemFilterParams) ([]entity.MenuItem, error) {
	if params == nil {
		params = &repository.MenuItemFilterParams{}
	}
	search := strings.ToLower(strings.TrimSpace(params.Search))

	var out []entity.MenuItem
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = list(tx, database.BucketMenuItems, func(it *entity.MenuItem) bool {
			if params.ActiveOnly && !it.Active {
				return false
			}
			if params.CategoryID != "" && it.CategoryID != params.CategoryID {
				return false
			}
			return search == "" || strings.Contains(strings.ToLower(it.Name), search)
		})
		return err
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *menuItemRepository) ClearCategory(_ context.Context, categoryID string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		items, err := list(tx, database.BucketMenuItems, func(it *entity.MenuItem) bool {
			return it.CategoryID == categoryID
		})
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range items {
			items[i].CategoryID = ""
			items[i].UpdatedAt = now
			if err := put(tx, database.BucketMenuItems, items[i].ID[:], &items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *menuItemRepository) ReplaceAll(_ context.Context, items []entity.MenuItem) error {
	now := time.Now()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt = now.Add(time.Duration(i))
		items[i].UpdatedAt = now
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return replaceAll(tx, database.BucketMenuItems, items, func(it *entity.MenuItem) []byte { return it.ID[:] })
	})
}

type expenseCategoryRepository struct {
	db *bbolt.DB
}

// NewExpenseCategoryRepository creates a bolt-backed expense category repository
func NewExpenseCategoryRepository(db *bbolt.DB) repository.ExpenseCategoryRepository {
	return &expenseCategoryRepository{db: db}
}

func (r *expenseCategoryRepository) Create(_ context.Context, category *entity.ExpenseCategory) error {
	now := time.Now()
	category.CreatedAt, category.UpdatedAt = now, now
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketExpenseCategories, []byte(category.ID), category)
	})
}

func (r *expenseCategoryRepository) GetByID(_ context.Context, id string) (*entity.ExpenseCategory, error) {
	var out *entity.ExpenseCategory
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = get[entity.ExpenseCategory](tx, database.BucketExpenseCategories, []byte(id))
		return err
	})
	return out, err
}

func (r *expenseCategoryRepository) Update(_ context.Context, category *entity.ExpenseCategory) error {
	category.UpdatedAt = time.Now()
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketExpenseCategories, []byte(category.ID), category)
	})
}

func (r *expenseCategoryRepository) Delete(_ context.Context, id string) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(database.BucketExpenseCategories).Delete([]byte(id))
	})
}

func (r *expenseCategoryRepository) List(_ context.Context) ([]entity.ExpenseCategory, error) {
	var out []entity.ExpenseCategory
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = list[entity.ExpenseCategory](tx, database.BucketExpenseCategories, nil)
		return err
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *expenseCategoryRepository) ReplaceAll(_ context.Context, categories []entity.ExpenseCategory) error {
	now := time.Now()
	for i := range categories {
		categories[i].CreatedAt = now.Add(time.Duration(i))
		categories[i].UpdatedAt = now
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return replaceAll(tx, database.BucketExpenseCategories, categories, func(c *entity.ExpenseCategory) []byte { return []byte(c.ID) })
	})
}
