package handler

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/application/pos"
	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/request"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PosHandler serves the point-of-sale screen of each terminal
type PosHandler struct {
	terminals *service.TerminalService
	catalog   *service.CatalogService
}

// NewPosHandler creates a new point-of-sale handler
func NewPosHandler(terminals *service.TerminalService, catalog *service.CatalogService) *PosHandler {
	return &PosHandler{terminals: terminals, catalog: catalog}
}

func (h *PosHandler) session(c *gin.Context) *pos.Session {
	return h.terminals.Session(middleware.GetTerminalID(c))
}

// GetMenu lists active products, optionally of one category
func (h *PosHandler) GetMenu(c *gin.Context) {
	menu, err := h.catalog.GetMenu(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Menu retrieved", menu)
}

// GetSession returns the working order with its totals
func (h *PosHandler) GetSession(c *gin.Context) {
	response.OK(c, "Session retrieved", h.session(c).View())
}

// SetChannel switches channel and replaces the channel details
func (h *PosHandler) SetChannel(c *gin.Context) {
	var req request.SetChannelRequest
	if !bindJSON(c, &req) {
		return
	}
	shipping := decimal.Zero
	if req.ShippingCost != nil {
		shipping = *req.ShippingCost
	}
	sess := h.session(c)
	err := sess.SetChannelDetails(*req.Channel, pos.ChannelDetails{
		TableLabel:      req.TableLabel,
		PartySize:       req.PartySize,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ShippingCost:    shipping,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Channel updated", sess.View())
}

// SetNotes replaces the order notes
func (h *PosHandler) SetNotes(c *gin.Context) {
	var req request.SetNotesRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	sess.SetNotes(req.Notes)
	response.OK(c, "Notes updated", sess.View())
}

// AddItem adds one unit of a product
func (h *PosHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	if err := sess.AddItem(c.Request.Context(), uuid.MustParse(req.ProductID)); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", sess.View())
}

// DecrementItem removes one unit of a product
func (h *PosHandler) DecrementItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	sess := h.session(c)
	sess.DecrementItem(id)
	response.OK(c, "Item decremented", sess.View())
}

// SetItemNote replaces the note of a cart line
func (h *PosHandler) SetItemNote(c *gin.Context) {
	id, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	var req request.ItemNoteRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	sess.SetItemNote(id, req.Note)
	response.OK(c, "Item note updated", sess.View())
}

// ClearCart empties the cart
func (h *PosHandler) ClearCart(c *gin.Context) {
	sess := h.session(c)
	sess.ClearCart()
	response.OK(c, "Cart cleared", sess.View())
}

// SetDiscount replaces the discount
func (h *PosHandler) SetDiscount(c *gin.Context) {
	var req request.SetDiscountRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	if err := sess.SetDiscount(pos.DiscountSpec{Mode: req.Mode, Value: req.Value}); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount updated", sess.View())
}

// AddPayment appends a payment entry prefilled with the remaining balance
func (h *PosHandler) AddPayment(c *gin.Context) {
	sess := h.session(c)
	sess.AddPayment()
	response.Created(c, "Payment added", sess.View())
}

// UpdatePayment edits one payment entry
func (h *PosHandler) UpdatePayment(c *gin.Context) {
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}
	var req request.UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	if err := sess.UpdatePayment(index, pos.PaymentPatch{Method: req.Method, Amount: req.Amount}); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated", sess.View())
}

// RemovePayment drops one payment entry
func (h *PosHandler) RemovePayment(c *gin.Context) {
	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}
	sess := h.session(c)
	sess.RemovePayment(index)
	response.OK(c, "Payment removed", sess.View())
}

// SetDefaultMethod changes the default tender
func (h *PosHandler) SetDefaultMethod(c *gin.Context) {
	var req request.DefaultMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	if err := sess.SetDefaultMethod(req.Method); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Default payment method updated", sess.View())
}

// Confirm commits the working order as a sale
func (h *PosHandler) Confirm(c *gin.Context) {
	sess := h.session(c)
	sale, err := sess.ConfirmSale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale recorded", gin.H{
		"sale":    sale,
		"session": sess.View(),
	})
}

// ListTabs lists open tabs
func (h *PosHandler) ListTabs(c *gin.Context) {
	tabs, err := h.session(c).ListTabs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Open tabs retrieved", tabs)
}

// OpenTab opens a tab and binds the terminal to it
func (h *PosHandler) OpenTab(c *gin.Context) {
	var req request.OpenTabRequest
	if !bindJSON(c, &req) {
		return
	}
	sess := h.session(c)
	tab, err := sess.OpenTab(c.Request.Context(), req.TableLabel, req.PartySize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tab opened", gin.H{"tab": tab, "session": sess.View()})
}

// LoadTab binds the terminal to an open tab
func (h *PosHandler) LoadTab(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	sess := h.session(c)
	tab, err := sess.LoadTab(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tab loaded", gin.H{"tab": tab, "session": sess.View()})
}

// AbandonTab closes a tab without a sale
func (h *PosHandler) AbandonTab(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	sess := h.session(c)
	if err := sess.AbandonTab(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tab closed", sess.View())
}
