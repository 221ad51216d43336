package repository

import (
	"strings"

	domainRepo "github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"gorm.io/gorm"
)

// LedgerWindow returns a GORM scope that bounds column by the filter window.
// From is inclusive, To is exclusive; zero bounds are ignored.
func LedgerWindow(column string, f domainRepo.LedgerFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.From.IsZero() {
			db = db.Where(column+" >= ?", f.From)
		}
		if !f.To.IsZero() {
			db = db.Where(column+" < ?", f.To)
		}
		return db
	}
}

// MenuItemFilters returns a GORM scope applying menu item list filters
func MenuItemFilters(params *domainRepo.MenuItemFilterParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		if params.ActiveOnly {
			db = db.Where("active = ?", true)
		}
		if params.CategoryID != "" {
			db = db.Where("category_id = ?", params.CategoryID)
		}
		if s := strings.TrimSpace(params.Search); s != "" {
			db = db.Where("name ILIKE ?", "%"+s+"%")
		}
		return db
	}
}
