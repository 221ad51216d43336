package repository

import (
	"context"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/google/uuid"
)

// LedgerRepository is the append-only store of income (sales) and expenses
type LedgerRepository interface {
	AppendSale(ctx context.Context, sale *entity.Sale) error
	GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	ListSales(ctx context.Context, filter LedgerFilter) ([]entity.Sale, error)
	AppendExpense(ctx context.Context, expense *entity.Expense) error
	ListExpenses(ctx context.Context, filter LedgerFilter) ([]entity.Expense, error)
}

// LedgerFilter bounds ledger reads by time; zero values mean unbounded.
// From is inclusive, To is exclusive.
type LedgerFilter struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the filter window
func (f LedgerFilter) Contains(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Before(f.To) {
		return false
	}
	return true
}
