package service

import (
	"context"
	"strings"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService manages menu categories and menu items
type CatalogService struct {
	categoryRepo repository.MenuCategoryRepository
	itemRepo     repository.MenuItemRepository
	log          *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(categoryRepo repository.MenuCategoryRepository, itemRepo repository.MenuItemRepository, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{categoryRepo: categoryRepo, itemRepo: itemRepo, log: log}
}

// GetByID resolves a menu item for the point of sale. Missing items return nil.
func (s *CatalogService) GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// Menu is the point-of-sale view of the catalog
type Menu struct {
	Categories []entity.MenuCategory `json:"categories"`
	Items      []entity.MenuItem     `json:"items"`
}

// GetMenu lists the categories and the active items, optionally of one category
func (s *CatalogService) GetMenu(ctx context.Context, categoryID string) (*Menu, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not list menu categories", err)
	}
	items, err := s.itemRepo.List(ctx, &repository.MenuItemFilterParams{CategoryID: categoryID, ActiveOnly: true})
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not list menu items", err)
	}
	return &Menu{Categories: categories, Items: items}, nil
}

// ListCategories returns every menu category
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.MenuCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not list menu categories", err)
	}
	return categories, nil
}

// CreateCategory adds a menu category whose id is the slug of its name
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.MenuCategory, error) {
	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}

	existing, err := s.categoryRepo.GetByID(ctx, slug)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read menu category", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category with this name already exists")
	}

	category := &entity.MenuCategory{ID: slug, Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.NewCollaboratorError("could not create menu category", err)
	}
	return category, nil
}

// RenameCategory changes the display name; the id stays stable
func (s *CatalogService) RenameCategory(ctx context.Context, id, name string) (*entity.MenuCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read menu category", err)
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, apperror.NewCollaboratorError("could not update menu category", err)
	}
	return category, nil
}

// DeleteCategory removes a category and leaves its items uncategorised
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewCollaboratorError("could not read menu category", err)
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	if err := s.itemRepo.ClearCategory(ctx, id); err != nil {
		return apperror.NewCollaboratorError("could not detach menu items", err)
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return apperror.NewCollaboratorError("could not delete menu category", err)
	}
	return nil
}

// MenuItemInput holds the editable fields of a menu item
type MenuItemInput struct {
	Name       string
	Price      decimal.Decimal
	CategoryID string
	Active     *bool
}

func (s *CatalogService) validateItem(ctx context.Context, input *MenuItemInput) error {
	var fields []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if input.Price.IsNegative() {
		fields = append(fields, apperror.FieldError{Field: "price", Message: "price must not be negative"})
	}
	if input.CategoryID != "" {
		category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
		if err != nil {
			return apperror.NewCollaboratorError("could not read menu category", err)
		}
		if category == nil {
			fields = append(fields, apperror.FieldError{Field: "category_id", Message: "unknown category"})
		}
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}
	return nil
}

// ListItems lists menu items, including inactive ones unless filtered
func (s *CatalogService) ListItems(ctx context.Context, params *repository.MenuItemFilterParams) ([]entity.MenuItem, error) {
	items, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not list menu items", err)
	}
	return items, nil
}

// CreateItem adds a product to the catalog
func (s *CatalogService) CreateItem(ctx context.Context, input *MenuItemInput) (*entity.MenuItem, error) {
	if err := s.validateItem(ctx, input); err != nil {
		return nil, err
	}
	item := &entity.MenuItem{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		Price:      input.Price,
		CategoryID: input.CategoryID,
		Active:     true,
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, apperror.NewCollaboratorError("could not create menu item", err)
	}
	s.log.Info("menu item created", zap.String("item_id", item.ID.String()), zap.String("name", item.Name))
	return item, nil
}

// UpdateItem replaces the editable fields of a product. Open carts keep the
// price they captured when the product was added.
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, input *MenuItemInput) (*entity.MenuItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read menu item", err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	if err := s.validateItem(ctx, input); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Price = input.Price
	item.CategoryID = input.CategoryID
	if input.Active != nil {
		item.Active = *input.Active
	}
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, apperror.NewCollaboratorError("could not update menu item", err)
	}
	return item, nil
}

// DeleteItem removes a product from the catalog
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewCollaboratorError("could not read menu item", err)
	}
	if item == nil {
		return apperror.NewNotFoundError("Menu item")
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return apperror.NewCollaboratorError("could not delete menu item", err)
	}
	return nil
}

// EnsureDefaults seeds the starter menu when the catalog has no categories and no items
func (s *CatalogService) EnsureDefaults(ctx context.Context) error {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return err
	}
	items, err := s.itemRepo.List(ctx, nil)
	if err != nil {
		return err
	}
	if len(categories) > 0 || len(items) > 0 {
		return nil
	}
	s.log.Info("seeding default menu")
	return s.reset(ctx)
}

// ResetMenu discards the catalog and restores the starter menu
func (s *CatalogService) ResetMenu(ctx context.Context) (*Menu, error) {
	if err := s.reset(ctx); err != nil {
		return nil, apperror.NewCollaboratorError("could not reset menu", err)
	}
	s.log.Warn("menu reset to defaults")
	return s.GetMenu(ctx, "")
}

func (s *CatalogService) reset(ctx context.Context) error {
	if err := s.categoryRepo.ReplaceAll(ctx, entity.DefaultMenuCategories()); err != nil {
		return err
	}
	return s.itemRepo.ReplaceAll(ctx, entity.DefaultMenuItems())
}
