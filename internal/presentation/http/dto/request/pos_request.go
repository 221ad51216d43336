package request

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SetChannelRequest switches the channel and replaces its details
type SetChannelRequest struct {
	Channel         *enum.Channel    `json:"channel" binding:"required"`
	TableLabel      string           `json:"table_label" binding:"max=50"`
	PartySize       *int             `json:"party_size" binding:"omitempty,min=1"`
	CustomerName    string           `json:"customer_name" binding:"max=255"`
	CustomerPhone   string           `json:"customer_phone" binding:"max=50"`
	CustomerAddress string           `json:"customer_address" binding:"max=255"`
	ShippingCost    *decimal.Decimal `json:"shipping_cost"`
}

// SetNotesRequest replaces the order notes
type SetNotesRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// AddItemRequest adds one unit of a product
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// ItemNoteRequest replaces a cart line note
type ItemNoteRequest struct {
	Note string `json:"note"`
}

// SetDiscountRequest replaces the order discount
type SetDiscountRequest struct {
	Mode  enum.DiscountMode `json:"mode"`
	Value decimal.Decimal   `json:"value"`
}

// UpdatePaymentRequest edits one payment entry; absent fields are kept
type UpdatePaymentRequest struct {
	Method *enum.PaymentMethod `json:"method"`
	Amount *decimal.Decimal    `json:"amount"`
}

// DefaultMethodRequest changes the default tender
type DefaultMethodRequest struct {
	Method enum.PaymentMethod `json:"method"`
}

// OpenTabRequest opens a tab for a table
type OpenTabRequest struct {
	TableLabel string `json:"table_label" binding:"required,max=50"`
	PartySize  *int   `json:"party_size" binding:"omitempty,min=1"`
}
