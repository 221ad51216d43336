package request

import "github.com/shopspring/decimal"

// CategoryRequest creates or renames a menu or expense category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// MenuItemRequest creates or replaces a menu item
type MenuItemRequest struct {
	Name       string          `json:"name" binding:"required,max=255"`
	Price      decimal.Decimal `json:"price"`
	CategoryID string          `json:"category_id" binding:"max=100"`
	Active     *bool           `json:"active"`
}

// MenuItemListQuery filters the owner's item list
type MenuItemListQuery struct {
	CategoryID string `form:"category_id"`
	Search     string `form:"search"`
	ActiveOnly bool   `form:"active_only"`
}
