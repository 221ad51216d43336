package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMenuCategories is the starter menu layout
func DefaultMenuCategories() []MenuCategory {
	return []MenuCategory{
		{ID: "rolls", Name: "Rolls"},
		{ID: "bebidas", Name: "Bebidas"},
		{ID: "postres", Name: "Postres"},
	}
}

// DefaultMenuItems is the starter menu, one product per default category
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{ID: uuid.New(), Name: "California Roll", Price: decimal.NewFromInt(4500), CategoryID: "rolls", Active: true},
		{ID: uuid.New(), Name: "Coca-Cola 500ml", Price: decimal.NewFromInt(1800), CategoryID: "bebidas", Active: true},
		{ID: uuid.New(), Name: "Cheesecake", Price: decimal.NewFromInt(3200), CategoryID: "postres", Active: true},
	}
}

// DefaultExpenseCategories are the categories offered on a fresh install
func DefaultExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{
		{ID: "insumos", Name: "Insumos"},
		{ID: "personal", Name: "Personal"},
		{ID: "alquiler", Name: "Alquiler"},
		{ID: "servicios", Name: "Servicios"},
		{ID: "impuestos", Name: "Impuestos"},
		{ID: "delivery", Name: "Delivery"},
		{ID: "marketing", Name: "Marketing"},
		{ID: "mantenimiento", Name: "Mantenimiento"},
		{ID: "otros", Name: "Otros"},
	}
}
