package handler

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/request"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ExpenseHandler serves expense categories and expense entry
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) ListCategories(c *gin.Context) {
	categories, err := h.expenseService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense categories retrieved", categories)
}

func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.expenseService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Expense category created", category)
}

func (h *ExpenseHandler) UpdateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.expenseService.RenameCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense category updated", category)
}

func (h *ExpenseHandler) DeleteCategory(c *gin.Context) {
	if err := h.expenseService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense category deleted", nil)
}

// ResetCategories restores the default expense categories
func (h *ExpenseHandler) ResetCategories(c *gin.Context) {
	categories, err := h.expenseService.ResetCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense categories reset to defaults", categories)
}

// Record records one expense
func (h *ExpenseHandler) Record(c *gin.Context) {
	var req request.RecordExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	expense, err := h.expenseService.RecordExpense(c.Request.Context(), &service.RecordExpenseInput{
		Date:        req.Date,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Supplier:    req.Supplier,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Expense recorded", expense)
}
