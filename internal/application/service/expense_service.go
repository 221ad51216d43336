package service

import (
	"context"
	"strings"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExpenseService manages expense categories and records expenses in the ledger
type ExpenseService struct {
	categoryRepo repository.ExpenseCategoryRepository
	ledger       repository.LedgerRepository
	log          *zap.Logger
	now          func() time.Time
}

// NewExpenseService creates a new expense service
func NewExpenseService(categoryRepo repository.ExpenseCategoryRepository, ledger repository.LedgerRepository, log *zap.Logger) *ExpenseService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExpenseService{categoryRepo: categoryRepo, ledger: ledger, log: log, now: time.Now}
}

// ListCategories returns every expense category
func (s *ExpenseService) ListCategories(ctx context.Context) ([]entity.ExpenseCategory, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not list expense categories", err)
	}
	return categories, nil
}

// CreateCategory adds an expense category keyed by the slug of its name
func (s *ExpenseService) CreateCategory(ctx context.Context, name string) (*entity.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}

	existing, err := s.categoryRepo.GetByID(ctx, slug)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read expense category", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Expense category with this name already exists")
	}

	category := &entity.ExpenseCategory{ID: slug, Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.NewCollaboratorError("could not create expense category", err)
	}
	return category, nil
}

// RenameCategory changes the display name of an expense category
func (s *ExpenseService) RenameCategory(ctx context.Context, id, name string) (*entity.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "name is required"}})
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read expense category", err)
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Expense category")
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, apperror.NewCollaboratorError("could not update expense category", err)
	}
	return category, nil
}

// DeleteCategory removes an expense category. Recorded expenses keep the id.
func (s *ExpenseService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewCollaboratorError("could not read expense category", err)
	}
	if category == nil {
		return apperror.NewNotFoundError("Expense category")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return apperror.NewCollaboratorError("could not delete expense category", err)
	}
	return nil
}

// EnsureDefaults seeds the default categories when none exist
func (s *ExpenseService) EnsureDefaults(ctx context.Context) error {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		return nil
	}
	s.log.Info("seeding default expense categories")
	return s.categoryRepo.ReplaceAll(ctx, entity.DefaultExpenseCategories())
}

// ResetCategories restores the default expense categories
func (s *ExpenseService) ResetCategories(ctx context.Context) ([]entity.ExpenseCategory, error) {
	if err := s.categoryRepo.ReplaceAll(ctx, entity.DefaultExpenseCategories()); err != nil {
		return nil, apperror.NewCollaboratorError("could not reset expense categories", err)
	}
	return s.ListCategories(ctx)
}

// RecordExpenseInput represents an expense to record
type RecordExpenseInput struct {
	Date        *time.Time
	Amount      decimal.Decimal
	CategoryID  string
	Supplier    string
	Description string
}

// RecordExpense validates and appends an expense to the ledger. A missing date
// means now.
func (s *ExpenseService) RecordExpense(ctx context.Context, input *RecordExpenseInput) (*entity.Expense, error) {
	var fields []apperror.FieldError
	if !input.Amount.IsPositive() {
		fields = append(fields, apperror.FieldError{Field: "amount", Message: "amount must be greater than zero"})
	}
	if input.CategoryID == "" {
		fields = append(fields, apperror.FieldError{Field: "category_id", Message: "category is required"})
	} else {
		category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
		if err != nil {
			return nil, apperror.NewCollaboratorError("could not read expense category", err)
		}
		if category == nil {
			fields = append(fields, apperror.FieldError{Field: "category_id", Message: "unknown category"})
		}
	}
	if len(fields) > 0 {
		return nil, apperror.NewValidationError(fields)
	}

	now := s.now()
	date := now
	if input.Date != nil && !input.Date.IsZero() {
		date = *input.Date
	}
	expense := &entity.Expense{
		ID:          uuid.New(),
		Date:        date,
		Amount:      input.Amount,
		CategoryID:  input.CategoryID,
		Supplier:    strings.TrimSpace(input.Supplier),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
	}
	if err := s.ledger.AppendExpense(ctx, expense); err != nil {
		s.log.Error("expense append failed", zap.Error(err))
		return nil, apperror.NewCollaboratorError("could not record expense", err)
	}
	s.log.Info("expense recorded",
		zap.String("expense_id", expense.ID.String()),
		zap.String("category", expense.CategoryID),
		zap.String("amount", expense.Amount.String()),
	)
	return expense, nil
}
