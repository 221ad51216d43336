// Package storage opens the configured backend and exposes its repositories.
package storage

import (
	"fmt"

	"github.com/ezequiel-pelliza/cajaclara/internal/config"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/boltstore"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	gormrepo "github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/repository"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store bundles every repository of one backend
type Store struct {
	MenuCategories    repository.MenuCategoryRepository
	MenuItems         repository.MenuItemRepository
	ExpenseCategories repository.ExpenseCategoryRepository
	Ledger            repository.LedgerRepository
	Tabs              repository.OpenTabRepository
	Idempotency       repository.IdempotencyRepository

	close func() error
}

// Close releases the backend
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects the backend named by cfg.Storage.Driver
func Open(cfg *config.Config, log *zap.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case "bolt", "":
		db, err := database.NewBoltDB(cfg.Storage.BoltPath, log)
		if err != nil {
			return nil, err
		}
		return NewBoltStore(db), nil
	case "postgres":
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db, log); err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (use bolt or postgres)", cfg.Storage.Driver)
	}
}

// NewBoltStore wires the embedded single-file backend
func NewBoltStore(db *bbolt.DB) *Store {
	return &Store{
		MenuCategories:    boltstore.NewMenuCategoryRepository(db),
		MenuItems:         boltstore.NewMenuItemRepository(db),
		ExpenseCategories: boltstore.NewExpenseCategoryRepository(db),
		Ledger:            boltstore.NewLedgerRepository(db),
		Tabs:              boltstore.NewOpenTabRepository(db),
		Idempotency:       boltstore.NewIdempotencyRepository(db),
		close:             db.Close,
	}
}

// NewGormStore wires the PostgreSQL backend
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		MenuCategories:    gormrepo.NewMenuCategoryRepository(db),
		MenuItems:         gormrepo.NewMenuItemRepository(db),
		ExpenseCategories: gormrepo.NewExpenseCategoryRepository(db),
		Ledger:            gormrepo.NewLedgerRepository(db),
		Tabs:              gormrepo.NewOpenTabRepository(db),
		Idempotency:       gormrepo.NewIdempotencyRepository(db),
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
