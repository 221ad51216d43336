package entity

import (
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineItem is one product row of a cart, open tab or sale.
// UnitPrice is the catalog price captured when the product was first added.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Note      string          `json:"note,omitempty"`
}

// LineTotal returns unit price times quantity
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PaymentEntry is one tender applied to a sale
type PaymentEntry struct {
	Method enum.PaymentMethod `json:"method"`
	Amount decimal.Decimal    `json:"amount"`
}

// Sale is the immutable income record produced by a successful checkout
type Sale struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Number    string       `gorm:"size:50;uniqueIndex;not null" json:"number"`
	Timestamp time.Time    `gorm:"not null;index" json:"timestamp"`
	Channel   enum.Channel `gorm:"default:0" json:"channel"`

	// Seated only
	TableLabel string     `gorm:"size:50" json:"table_label,omitempty"`
	PartySize  *int       `json:"party_size,omitempty"`
	TabID      *uuid.UUID `gorm:"type:uuid" json:"tab_id,omitempty"`

	// Takeaway and delivery
	CustomerName  string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone string `gorm:"size:50" json:"customer_phone,omitempty"`
	// Delivery only
	CustomerAddress string `gorm:"size:255" json:"customer_address,omitempty"`

	Items                []LineItem        `gorm:"type:jsonb;serializer:json" json:"items"`
	Subtotal             decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"subtotal"`
	DiscountMode         enum.DiscountMode `gorm:"default:0" json:"discount_mode"`
	DiscountValue        decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"discount_value"`
	DiscountAmount       decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"discount_amount"`
	ShippingCost         decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"shipping_cost"`
	TotalAfter           decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_after"`
	Payments             []PaymentEntry    `gorm:"type:jsonb;serializer:json" json:"payments"`
	PaymentMethodSummary string            `gorm:"size:20;index" json:"payment_method_summary"`
	Change               decimal.Decimal   `gorm:"type:numeric(14,2);not null;default:0" json:"change"`
	Notes                string            `gorm:"type:text" json:"notes,omitempty"`
	Description          string            `gorm:"size:255" json:"description"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// LedgerMethod is the payment method written into ledgers that have no mixed tender.
// Mixed sales are reported as cash there.
func (s *Sale) LedgerMethod() string {
	if s.PaymentMethodSummary == enum.PaymentSummaryMixed {
		return enum.PaymentCash.String()
	}
	return s.PaymentMethodSummary
}

// AmountPaid sums every payment entry
func (s *Sale) AmountPaid() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range s.Payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
