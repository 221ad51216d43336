package handler

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/request"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the owner's menu management
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories lists menu categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved", categories)
}

// CreateCategory adds a menu category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created", category)
}

// UpdateCategory renames a menu category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.catalogService.RenameCategory(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated", category)
}

// DeleteCategory removes a menu category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted", nil)
}

// ListItems lists menu items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var q request.MenuItemListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return
	}
	items, err := h.catalogService.ListItems(c.Request.Context(), &repository.MenuItemFilterParams{
		CategoryID: q.CategoryID,
		ActiveOnly: q.ActiveOnly,
		Search:     q.Search,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu items retrieved", items)
}

func itemInput(req *request.MenuItemRequest) *service.MenuItemInput {
	return &service.MenuItemInput{
		Name:       req.Name,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		Active:     req.Active,
	}
}

// CreateItem adds a menu item
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req request.MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.catalogService.CreateItem(c.Request.Context(), itemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Menu item created", item)
}

// UpdateItem replaces a menu item
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req request.MenuItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.catalogService.UpdateItem(c.Request.Context(), id, itemInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu item updated", item)
}

// DeleteItem removes a menu item
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu item deleted", nil)
}

// Reset restores the starter menu
func (h *CatalogHandler) Reset(c *gin.Context) {
	menu, err := h.catalogService.ResetMenu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu reset to defaults", menu)
}
