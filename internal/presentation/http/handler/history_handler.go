package handler

import (
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/request"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/ezequiel-pelliza/cajaclara/pkg/pagination"
	"github.com/gin-gonic/gin"
)

const dateParamLayout = "2006-01-02"

// HistoryHandler serves the ledger history and its exports
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// parseQuery turns query parameters into a history filter. "to" is an
// inclusive calendar day.
func parseQuery(c *gin.Context) (*request.HistoryQuery, service.HistoryQuery, bool) {
	var req request.HistoryQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query: "+err.Error())
		return nil, service.HistoryQuery{}, false
	}
	kind, _ := enum.ParseLedgerKind(req.Type)
	q := service.HistoryQuery{Kind: kind, Q: req.Q}

	if req.From != "" {
		from, err := time.ParseInLocation(dateParamLayout, req.From, time.Local)
		if err != nil {
			response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return nil, q, false
		}
		q.From = from
	}
	if req.To != "" {
		to, err := time.ParseInLocation(dateParamLayout, req.To, time.Local)
		if err != nil {
			response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return nil, q, false
		}
		q.To = to.AddDate(0, 0, 1)
	}
	return &req, q, true
}

// List returns one page of merged income and expense rows
func (h *HistoryHandler) List(c *gin.Context) {
	req, q, ok := parseQuery(c)
	if !ok {
		return
	}
	params := &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage}
	result, err := h.historyService.List(c.Request.Context(), q, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, "History retrieved", result)
}

// Export downloads the filtered history as CSV (default) or XLSX
func (h *HistoryHandler) Export(c *gin.Context) {
	req, q, ok := parseQuery(c)
	if !ok {
		return
	}
	rows, err := h.historyService.Rows(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Format == "xlsx" {
		response.Attachment(c, "history.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := service.WriteLedgerXLSX(rows, c.Writer); err != nil {
			_ = c.Error(err)
		}
		return
	}
	response.Attachment(c, "history.csv", "text/csv; charset=utf-8")
	if err := service.WriteLedgerCSV(rows, c.Writer); err != nil {
		_ = c.Error(err)
	}
}
