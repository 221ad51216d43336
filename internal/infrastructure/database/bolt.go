package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Bucket names of the local store
var (
	BucketMenuCategories    = []byte("menu_categories")
	BucketMenuItems         = []byte("menu_items")
	BucketExpenseCategories = []byte("expense_categories")
	BucketSales             = []byte("sales")
	BucketExpenses          = []byte("expenses")
	BucketOpenTabs          = []byte("open_tabs")
	BucketIdempotencyKeys   = []byte("idempotency_keys")
)

var allBuckets = [][]byte{
	BucketMenuCategories,
	BucketMenuItems,
	BucketExpenseCategories,
	BucketSales,
	BucketExpenses,
	BucketOpenTabs,
	BucketIdempotencyKeys,
}

// NewBoltDB opens (or creates) the single-file local store and makes sure every bucket exists
func NewBoltDB(path string, log *zap.Logger) (*bbolt.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	if log != nil {
		log.Info("opened local store", zap.String("path", path))
	}
	return db, nil
}
