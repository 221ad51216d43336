package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/pagination"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	incomeFallbackDescription  = "Sale"
	expenseFallbackDescription = "Expense"
	historySheet               = "History"
)

// LedgerRow is one line of the merged income and expense history
type LedgerRow struct {
	Kind        enum.LedgerKind `json:"type"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	Method      string          `json:"method,omitempty"`
	Description string          `json:"description"`
}

// csvRow is the flat export shape; gocsv quotes fields with commas, quotes or newlines
type csvRow struct {
	Type        string `csv:"type"`
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Method      string `csv:"method"`
	Description string `csv:"description"`
}

// HistoryQuery filters the history
type HistoryQuery struct {
	Kind enum.LedgerKind // empty means both kinds
	Q    string          // case-insensitive match on description, category or method
	From time.Time
	To   time.Time
}

// HistoryService merges ledger entries for browsing and export
type HistoryService struct {
	ledger       repository.LedgerRepository
	categoryRepo repository.ExpenseCategoryRepository
}

// NewHistoryService creates a new history service
func NewHistoryService(ledger repository.LedgerRepository, categoryRepo repository.ExpenseCategoryRepository) *HistoryService {
	return &HistoryService{ledger: ledger, categoryRepo: categoryRepo}
}

// Rows returns every matching row, newest first
func (s *HistoryService) Rows(ctx context.Context, q HistoryQuery) ([]LedgerRow, error) {
	filter := repository.LedgerFilter{From: q.From, To: q.To}
	var rows []LedgerRow

	if q.Kind == "" || q.Kind == enum.LedgerIncome {
		sales, err := s.ledger.ListSales(ctx, filter)
		if err != nil {
			return nil, apperror.NewCollaboratorError("could not read sales", err)
		}
		for i := range sales {
			sale := &sales[i]
			desc := sale.Description
			if desc == "" {
				desc = incomeFallbackDescription
			}
			rows = append(rows, LedgerRow{
				Kind:        enum.LedgerIncome,
				Date:        sale.Timestamp,
				Amount:      sale.TotalAfter,
				Method:      sale.LedgerMethod(),
				Description: desc,
			})
		}
	}

	if q.Kind == "" || q.Kind == enum.LedgerExpense {
		expenses, err := s.ledger.ListExpenses(ctx, filter)
		if err != nil {
			return nil, apperror.NewCollaboratorError("could not read expenses", err)
		}
		names, err := s.categoryNames(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			desc := e.Supplier
			if desc == "" {
				desc = e.Description
			}
			if desc == "" {
				desc = expenseFallbackDescription
			}
			category := names[e.CategoryID]
			if category == "" {
				category = e.CategoryID
			}
			rows = append(rows, LedgerRow{
				Kind:        enum.LedgerExpense,
				Date:        e.Date,
				Amount:      e.Amount,
				Category:    category,
				Description: desc,
			})
		}
	}

	if needle := strings.ToLower(strings.TrimSpace(q.Q)); needle != "" {
		kept := rows[:0]
		for _, r := range rows {
			if matches(r.Description, needle) || matches(r.Category, needle) || matches(r.Method, needle) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.After(rows[j].Date)
	})
	return rows, nil
}

// List returns one page of the history
func (s *HistoryService) List(ctx context.Context, q HistoryQuery, params *pagination.PaginationParams) (*pagination.PaginatedResult[LedgerRow], error) {
	rows, err := s.Rows(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(rows, params), nil
}

// ExportCSV writes the filtered history as CSV with a header row
func (s *HistoryService) ExportCSV(ctx context.Context, q HistoryQuery, w io.Writer) error {
	rows, err := s.Rows(ctx, q)
	if err != nil {
		return err
	}
	return WriteLedgerCSV(rows, w)
}

// WriteLedgerCSV renders rows with the columns type,date,amount,category,method,description
func WriteLedgerCSV(rows []LedgerRow, w io.Writer) error {
	out := make([]*csvRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, &csvRow{
			Type:        r.Kind.String(),
			Date:        r.Date.Format(time.RFC3339),
			Amount:      r.Amount.StringFixed(2),
			Category:    r.Category,
			Method:      r.Method,
			Description: r.Description,
		})
	}
	return gocsv.Marshal(out, w)
}

// ExportXLSX writes the filtered history as a single-sheet workbook
func (s *HistoryService) ExportXLSX(ctx context.Context, q HistoryQuery, w io.Writer) error {
	rows, err := s.Rows(ctx, q)
	if err != nil {
		return err
	}
	return WriteLedgerXLSX(rows, w)
}

// WriteLedgerXLSX renders rows into a single-sheet workbook
func WriteLedgerXLSX(rows []LedgerRow, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return err
	}
	header := []interface{}{"type", "date", "amount", "category", "method", "description"}
	if err := f.SetSheetRow(historySheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			r.Kind.String(),
			r.Date.Format("2006-01-02 15:04"),
			r.Amount.InexactFloat64(),
			r.Category,
			r.Method,
			r.Description,
		}
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return fmt.Errorf("write history row %d: %w", i+1, err)
		}
	}
	return f.Write(w)
}

func (s *HistoryService) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read expense categories", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func matches(field, needle string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), needle)
}
