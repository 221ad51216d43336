package boltstore

import (
	"context"
	"sort"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

type openTabRepository struct {
	db *bbolt.DB
}

// NewOpenTabRepository creates a bolt-backed open tab store
func NewOpenTabRepository(db *bbolt.DB) repository.OpenTabRepository {
	return &openTabRepository{db: db}
}

func (r *openTabRepository) List(_ context.Context) ([]entity.OpenTab, error) {
	var out []entity.OpenTab
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = list[entity.OpenTab](tx, database.BucketOpenTabs, nil)
		return err
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r *openTabRepository) Get(_ context.Context, id uuid.UUID) (*entity.OpenTab, error) {
	var out *entity.OpenTab
	err := r.db.View(func(tx *bbolt.Tx) error {
		var err error
		out, err = get[entity.OpenTab](tx, database.BucketOpenTabs, id[:])
		return err
	})
	return out, err
}

func (r *openTabRepository) Create(_ context.Context, tableLabel string, partySize *int) (*entity.OpenTab, error) {
	now := time.Now()
	tab := &entity.OpenTab{
		ID:         uuid.New(),
		Channel:    enum.ChannelSeated,
		TableLabel: tableLabel,
		PartySize:  partySize,
		Items:      []entity.LineItem{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := r.db.Update(func(tx *bbolt.Tx) error {
		return put(tx, database.BucketOpenTabs, tab.ID[:], tab)
	})
	if err != nil {
		return nil, err
	}
	return tab, nil
}

func (r *openTabRepository) Upsert(_ context.Context, tab *entity.OpenTab) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		stored := tab.Clone()
		stored.UpdatedAt = time.Now()
		if stored.CreatedAt.IsZero() {
			existing, err := get[entity.OpenTab](tx, database.BucketOpenTabs, tab.ID[:])
			if err != nil {
				return err
			}
			if existing != nil {
				stored.CreatedAt = existing.CreatedAt
			} else {
				stored.CreatedAt = stored.UpdatedAt
			}
		}
		return put(tx, database.BucketOpenTabs, stored.ID[:], stored)
	})
}

func (r *openTabRepository) Close(_ context.Context, id uuid.UUID) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(database.BucketOpenTabs).Delete(id[:])
	})
}
