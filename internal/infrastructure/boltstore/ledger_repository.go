package boltstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

type ledgerRepository struct {
	db *bbolt.DB
}

// NewLedgerRepository creates a bolt-backed append-only ledger
func NewLedgerRepository(db *bbolt.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) AppendSale(_ context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		if exists(tx, database.BucketSales, sale.ID[:]) {
			return fmt.Errorf("sale %s already recorded", sale.ID)
		}
		return put(tx, database.BucketSales, sale.ID[:], sale)
	})
}

func (r *ledgerRepository) GetSale(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = get[entity.Sale](tx, database.BucketSales, id[:])
		return err
	})
	return out, err
}

// ListSales returns sales inside the filter window, newest first
func (r *ledgerRepository) ListSales(_ context.Context, filter repository.LedgerFilter) ([]entity.Sale, error) {
	var out []entity.Sale
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = list(tx, database.BucketSales, func(s *entity.Sale) bool {
			return filter.Contains(s.Timestamp)
		})
		return err
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, err
}

func (r *ledgerRepository) AppendExpense(_ context.Context, expense *entity.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now()
	return r.db.Update(func(tx *bbolt.Tx) error {
		if exists(tx, database.BucketExpenses, expense.ID[:]) {
			return fmt.Errorf("expense %s already recorded", expense.ID)
		}
		return put(tx, database.BucketExpenses, expense.ID[:], expense)
	})
}

// ListExpenses returns expenses inside the filter window, newest first
func (r *ledgerRepository) ListExpenses(_ context.Context, filter repository.LedgerFilter) ([]entity.Expense, error) {
	var out []entity.Expense
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = list(tx, database.BucketExpenses, func(e *entity.Expense) bool {
			return filter.Contains(e.Date)
		})
		return err
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, err
}
