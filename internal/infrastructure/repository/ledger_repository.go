package repository

import (
	"context"
	"errors"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	domainRepo "github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) AppendSale(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *ledgerRepository) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *ledgerRepository) ListSales(ctx context.Context, filter domainRepo.LedgerFilter) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(LedgerWindow("timestamp", filter)).
		Order("timestamp DESC").
		Find(&sales).Error
	return sales, err
}

func (r *ledgerRepository) AppendExpense(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *ledgerRepository) ListExpenses(ctx context.Context, filter domainRepo.LedgerFilter) ([]entity.Expense, error) {
	var expenses []entity.Expense
	err := r.db.WithContext(ctx).
		Scopes(LedgerWindow("date", filter)).
		Order("date DESC").
		Find(&expenses).Error
	return expenses, err
}
