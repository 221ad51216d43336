package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	domainRepo "github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type openTabRepository struct {
	db *gorm.DB
}

// NewOpenTabRepository creates a new open tab repository
func NewOpenTabRepository(db *gorm.DB) domainRepo.OpenTabRepository {
	return &openTabRepository{db: db}
}

func (r *openTabRepository) List(ctx context.Context) ([]entity.OpenTab, error) {
	var tabs []entity.OpenTab
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tabs).Error
	return tabs, err
}

func (r *openTabRepository) Get(ctx context.Context, id uuid.UUID) (*entity.OpenTab, error) {
	var tab entity.OpenTab
	err := r.db.WithContext(ctx).First(&tab, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tab, err
}

func (r *openTabRepository) Create(ctx context.Context, tableLabel string, partySize *int) (*entity.OpenTab, error) {
	tab := &entity.OpenTab{
		Channel:    enum.ChannelSeated,
		TableLabel: tableLabel,
		PartySize:  partySize,
		Items:      []entity.LineItem{},
	}
	if err := r.db.WithContext(ctx).Create(tab).Error; err != nil {
		return nil, err
	}
	return tab, nil
}

// Upsert inserts the tab or overwrites its mutable columns, keeping created_at
func (r *openTabRepository) Upsert(ctx context.Context, tab *entity.OpenTab) error {
	stored := tab.Clone()
	stored.UpdatedAt = time.Now()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = stored.UpdatedAt
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"table_label", "party_size", "items", "discount_mode", "discount_value", "notes", "updated_at",
		}),
	}).Create(stored).Error
}

func (r *openTabRepository) Close(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.OpenTab{}, "id = ?", id).Error
}
