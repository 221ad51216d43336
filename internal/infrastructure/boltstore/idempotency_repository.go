package boltstore

import (
	"context"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

type idempotencyRepository struct {
	db *bbolt.DB
}

// NewIdempotencyRepository creates a bolt-backed idempotency key store
func NewIdempotencyRepository(db *bbolt.DB) repository.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func idempotencyKey(terminalID, key string) []byte {
	return []byte(terminalID + "\x00" + key)
}

func (r *idempotencyRepository) GetByKey(_ context.Context, key string, terminalID string) (*entity.IdempotencyKey, error) {
	var out *entity.IdempotencyKey
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = get[entity.IdempotencyKey](tx, database.BucketIdempotencyKeys, idempotencyKey(terminalID, key))
		return err
	})
	return out, err
}

func (r *idempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = time.Now()
	return r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketIdempotencyKeys, idempotencyKey(ikey.TerminalID, ikey.Key), ikey)
	})
}

func (r *idempotencyRepository) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	err := r.db.Update(func(tx *bbolt.Tx) error {
		expired, err := list(tx, database.BucketIdempotencyKeys, func(k *entity.IdempotencyKey) bool {
			return k.IsExpired()
		})
		if err != nil {
			return err
		}
		b := tx.Bucket(database.BucketIdempotencyKeys)
		for _, k := range expired {
			if err := b.Delete(idempotencyKey(k.TerminalID, k.Key)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}
