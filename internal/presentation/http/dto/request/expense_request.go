package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordExpenseRequest records one expense; date defaults to now
type RecordExpenseRequest struct {
	Date        *time.Time      `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"category_id" binding:"required"`
	Supplier    string          `json:"supplier" binding:"max=255"`
	Description string          `json:"description" binding:"max=1000"`
}

// HistoryQuery filters the ledger history
type HistoryQuery struct {
	Type    string `form:"type" binding:"omitempty,oneof=all income expense"`
	Q       string `form:"q"`
	From    string `form:"from"`
	To      string `form:"to"`
	Format  string `form:"format" binding:"omitempty,oneof=csv xlsx"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
