package repository

import (
	"context"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/google/uuid"
)

// OpenTabRepository keeps seated orders that are still open
type OpenTabRepository interface {
	// List returns open tabs, most recently opened first
	List(ctx context.Context) ([]entity.OpenTab, error)
	// Get returns nil, nil when the tab does not exist
	Get(ctx context.Context, id uuid.UUID) (*entity.OpenTab, error)
	// Create opens an empty tab for a table
	Create(ctx context.Context, tableLabel string, partySize *int) (*entity.OpenTab, error)
	// Upsert stores the tab, creating it when absent, and stamps UpdatedAt
	Upsert(ctx context.Context, tab *entity.OpenTab) error
	// Close removes the tab; closing an unknown id is not an error
	Close(ctx context.Context, id uuid.UUID) error
}
