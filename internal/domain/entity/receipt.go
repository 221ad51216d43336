package entity

import "github.com/shopspring/decimal"

// ReceiptLine is one printed product row
type ReceiptLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Note      string          `json:"note,omitempty"`
}

// ReceiptPayment is one printed tender
type ReceiptPayment struct {
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt is the printable view of a committed sale. It is composed at print
// time and never stored.
type Receipt struct {
	StoreName string           `json:"store_name"`
	Currency  string           `json:"currency"`
	SaleNo    string           `json:"sale_no"`
	Date      string           `json:"date"`
	Channel   string           `json:"channel"`
	Table     string           `json:"table,omitempty"`
	Customer  string           `json:"customer,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	Lines     []ReceiptLine    `json:"lines"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Discount  decimal.Decimal  `json:"discount"`
	Shipping  decimal.Decimal  `json:"shipping"`
	Total     decimal.Decimal  `json:"total"`
	Payments  []ReceiptPayment `json:"payments"`
	Change    decimal.Decimal  `json:"change"`
	Notes     string           `json:"notes,omitempty"`
}
