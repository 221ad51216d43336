package entity

import (
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OpenTab is a seated order kept open across visits to the table
type OpenTab struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Channel       enum.Channel      `gorm:"default:0" json:"channel"`
	TableLabel    string            `gorm:"size:50;not null" json:"table_label"`
	PartySize     *int              `json:"party_size,omitempty"`
	Items         []LineItem        `gorm:"type:jsonb;serializer:json" json:"items"`
	DiscountMode  enum.DiscountMode `gorm:"default:0" json:"discount_mode"`
	DiscountValue decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"discount_value"`
	Notes         string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new tab
func (t *OpenTab) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OpenTab model
func (OpenTab) TableName() string {
	return "open_tabs"
}

// Clone returns a deep copy so callers cannot alias the stored items slice
func (t *OpenTab) Clone() *OpenTab {
	if t == nil {
		return nil
	}
	c := *t
	c.Items = append([]LineItem(nil), t.Items...)
	if t.PartySize != nil {
		n := *t.PartySize
		c.PartySize = &n
	}
	return &c
}
