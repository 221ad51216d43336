package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/boltstore"
	"github.com/ezequiel-pelliza/cajaclara/internal/infrastructure/database"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/ezequiel-pelliza/cajaclara/pkg/pagination"
	"github.com/ezequiel-pelliza/cajaclara/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store struct {
	menuCategories    repository.MenuCategoryRepository
	menuItems         repository.MenuItemRepository
	expenseCategories repository.ExpenseCategoryRepository
	ledger            repository.LedgerRepository
	tabs              repository.OpenTabRepository
}

func newStore(t *testing.T) *store {
	t.Helper()
	db, err := database.NewBoltDB(filepath.Join(t.TempDir(), "service.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &store{
		menuCategories:    boltstore.NewMenuCategoryRepository(db),
		menuItems:         boltstore.NewMenuItemRepository(db),
		expenseCategories: boltstore.NewExpenseCategoryRepository(db),
		ledger:            boltstore.NewLedgerRepository(db),
		tabs:              boltstore.NewOpenTabRepository(db),
	}
}

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCatalogEnsureDefaults(t *testing.T) {
	st := newStore(t)
	svc := NewCatalogService(st.menuCategories, st.menuItems, nil)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaults(ctx))
	menu, err := svc.GetMenu(ctx, "")
	require.NoError(t, err)
	assert.Len(t, menu.Categories, 3)
	assert.Len(t, menu.Items, 3)

	_, err = svc.CreateCategory(ctx, "Entradas")
	require.NoError(t, err)
	require.NoError(t, svc.EnsureDefaults(ctx))
	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 4, "seeding must not run over an existing catalog")

	menu, err = svc.ResetMenu(ctx)
	require.NoError(t, err)
	assert.Len(t, menu.Categories, 3)
}

func TestCatalogCategoryLifecycle(t *testing.T) {
	st := newStore(t)
	svc := NewCatalogService(st.menuCategories, st.menuItems, nil)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "  Platos Calientes ")
	require.NoError(t, err)
	assert.Equal(t, "platos-calientes", cat.ID)
	assert.Equal(t, "Platos Calientes", cat.Name)

	_, err = svc.CreateCategory(ctx, "platos calientes")
	requireCode(t, err, http.StatusConflict)
	_, err = svc.CreateCategory(ctx, "  ")
	requireCode(t, err, http.StatusUnprocessableEntity)

	item, err := svc.CreateItem(ctx, &MenuItemInput{Name: "Ramen", Price: d(5200), CategoryID: cat.ID})
	require.NoError(t, err)
	assert.True(t, item.Active)

	renamed, err := svc.RenameCategory(ctx, cat.ID, "Calientes")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, renamed.ID)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	got, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.CategoryID)

	requireCode(t, svc.DeleteCategory(ctx, cat.ID), http.StatusNotFound)
}

func TestCatalogItemValidation(t *testing.T) {
	st := newStore(t)
	svc := NewCatalogService(st.menuCategories, st.menuItems, nil)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, &MenuItemInput{Name: "", Price: d(-1), CategoryID: "ghost"})
	requireCode(t, err, http.StatusUnprocessableEntity)
	assert.Len(t, apperror.GetAppError(err).Errors, 3)

	inactive := false
	item, err := svc.CreateItem(ctx, &MenuItemInput{Name: "Temaki", Price: d(3000), Active: &inactive})
	require.NoError(t, err)

	menu, err := svc.GetMenu(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, menu.Items, "inactive items stay off the point-of-sale menu")

	active := true
	updated, err := svc.UpdateItem(ctx, item.ID, &MenuItemInput{Name: "Temaki", Price: d(3300), Active: &active})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(d(3300)))

	_, err = svc.UpdateItem(ctx, uuid.New(), &MenuItemInput{Name: "x"})
	requireCode(t, err, http.StatusNotFound)

	require.NoError(t, svc.DeleteItem(ctx, item.ID))
	requireCode(t, svc.DeleteItem(ctx, item.ID), http.StatusNotFound)
}

func TestRecordExpense(t *testing.T) {
	st := newStore(t)
	svc := NewExpenseService(st.expenseCategories, st.ledger, nil)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaults(ctx))

	_, err := svc.RecordExpense(ctx, &RecordExpenseInput{Amount: decimal.Zero, CategoryID: "insumos"})
	requireCode(t, err, http.StatusUnprocessableEntity)

	_, err = svc.RecordExpense(ctx, &RecordExpenseInput{Amount: d(100), CategoryID: "ghost"})
	requireCode(t, err, http.StatusUnprocessableEntity)

	expense, err := svc.RecordExpense(ctx, &RecordExpenseInput{Amount: d(12500), CategoryID: "insumos", Supplier: " Pescadería Norte "})
	require.NoError(t, err)
	assert.Equal(t, "Pescadería Norte", expense.Supplier)
	assert.False(t, expense.Date.IsZero())

	stored, err := st.ledger.ListExpenses(ctx, repository.LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Amount.Equal(d(12500)))
}

func TestExpenseCategories(t *testing.T) {
	st := newStore(t)
	svc := NewExpenseService(st.expenseCategories, st.ledger, nil)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Gas Envasado")
	require.NoError(t, err)
	assert.Equal(t, "gas-envasado", cat.ID)
	require.NoError(t, svc.EnsureDefaults(ctx))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	categories, err = svc.ResetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(entity.DefaultExpenseCategories()))
}

func seedLedger(t *testing.T, st *store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.expenseCategories.ReplaceAll(ctx, entity.DefaultExpenseCategories()))

	saleAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	expenseAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, st.ledger.AppendSale(ctx, &entity.Sale{
		ID:         uuid.New(),
		Number:     utils.GenerateSaleNo(),
		Timestamp:  saleAt,
		Items:      []entity.LineItem{{ProductID: uuid.New(), Name: "California Roll", UnitPrice: d(500), Quantity: 2}},
		Subtotal:   d(1000),
		TotalAfter: d(1000),
		Payments: []entity.PaymentEntry{
			{Method: enum.PaymentCash, Amount: d(600)},
			{Method: enum.PaymentQR, Amount: d(400)},
		},
		PaymentMethodSummary: enum.PaymentSummaryMixed,
		Description:          "POS sale",
	}))
	require.NoError(t, st.ledger.AppendSale(ctx, &entity.Sale{
		ID:                   uuid.New(),
		Number:               utils.GenerateSaleNo(),
		Timestamp:            time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC),
		Subtotal:             d(800),
		TotalAfter:           d(800),
		PaymentMethodSummary: "transfer",
		Description:          "POS sale",
	}))
	require.NoError(t, st.ledger.AppendExpense(ctx, &entity.Expense{
		ID:         uuid.New(),
		Date:       expenseAt,
		Amount:     d(300),
		CategoryID: "insumos",
		Supplier:   "Pescadería, Norte",
	}))
}

func TestHistoryRows(t *testing.T) {
	st := newStore(t)
	seedLedger(t, st)
	svc := NewHistoryService(st.ledger, st.expenseCategories)
	ctx := context.Background()

	rows, err := svc.Rows(ctx, HistoryQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].Date.After(rows[i-1].Date), "rows must be newest first")
	}
	assert.Equal(t, "cash", rows[0].Method, "mixed sales are listed as cash")
	assert.Equal(t, "Insumos", rows[1].Category)

	rows, err = svc.Rows(ctx, HistoryQuery{Kind: enum.LedgerExpense})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pescadería, Norte", rows[0].Description)

	rows, err = svc.Rows(ctx, HistoryQuery{Q: "TRANSFER"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(d(800)))

	page, err := svc.List(ctx, HistoryQuery{}, &pagination.PaginationParams{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Pagination.Total)
}

func TestHistoryExportCSV(t *testing.T) {
	st := newStore(t)
	seedLedger(t, st)
	svc := NewHistoryService(st.ledger, st.expenseCategories)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), HistoryQuery{Kind: enum.LedgerExpense}, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "type,date,amount,category,method,description", lines[0])
	assert.Equal(t, `expense,2026-03-10T09:00:00Z,300.00,Insumos,,"Pescadería, Norte"`, lines[1])
}

func TestHistoryExportXLSX(t *testing.T) {
	st := newStore(t)
	seedLedger(t, st)
	svc := NewHistoryService(st.ledger, st.expenseCategories)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportXLSX(context.Background(), HistoryQuery{}, &buf))
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestDashboardKPIs(t *testing.T) {
	st := newStore(t)
	seedLedger(t, st)
	svc := NewDashboardService(st.ledger, st.expenseCategories)
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	kpis, err := svc.GetKPIs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-03", kpis.Month)
	assert.True(t, kpis.TotalIncome.Equal(d(1000)))
	assert.True(t, kpis.TotalExpenses.Equal(d(300)))
	assert.True(t, kpis.NetResult.Equal(d(700)))
	assert.Equal(t, 1, kpis.SalesCount)
	assert.True(t, kpis.ExpensesByCategory["Insumos"].Equal(d(300)))
	assert.True(t, kpis.IncomeByMethod["cash"].Equal(d(1000)))
	assert.True(t, kpis.IncomeByMethod["qr"].IsZero())

	require.Len(t, kpis.Last7Days, 7)
	assert.Equal(t, "2026-03-09", kpis.Last7Days[0].Date)
	assert.Equal(t, "2026-03-15", kpis.Last7Days[6].Date)
	assert.True(t, kpis.Last7Days[1].Expense.Equal(d(300)))
	assert.True(t, kpis.Last7Days[5].Income.Equal(d(1000)))
}

func TestAuthLogin(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	svc, err := NewAuthService("9999", "1111", jwtManager, nil)
	require.NoError(t, err)
	ctx := context.Background()

	out, err := svc.Login(ctx, &LoginInput{PIN: "9999", TerminalID: "caja-1"})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleOwner, out.Role)
	assert.Equal(t, int64(3600), out.ExpiresIn)

	claims, err := jwtManager.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "caja-1", claims.TerminalID)

	out, err = svc.Login(ctx, &LoginInput{PIN: "1111"})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleCashier, out.Role)
	assert.NotEmpty(t, out.TerminalID)

	_, err = svc.Login(ctx, &LoginInput{PIN: "0000"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidPIN))

	_, err = NewAuthService("1234", "1234", jwtManager, nil)
	assert.Error(t, err)
}

func TestTerminalSessions(t *testing.T) {
	st := newStore(t)
	catalog := NewCatalogService(st.menuCategories, st.menuItems, nil)
	svc := NewTerminalService(catalog, st.ledger, st.tabs, enum.PaymentQR, nil)

	a := svc.Session("caja-1")
	assert.Same(t, a, svc.Session("caja-1"))
	assert.NotSame(t, a, svc.Session("caja-2"))
	assert.Equal(t, 2, svc.Active())
	assert.Equal(t, enum.PaymentQR, a.View().DefaultMethod)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, svc.Shutdown(ctx))
}

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	p.jobs = append(p.jobs, data)
	return p.err
}
func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }
func (p *recordingPrinter) Close() error                     { return nil }

func TestPrintSale(t *testing.T) {
	st := newStore(t)
	seedLedger(t, st)
	sales, err := st.ledger.ListSales(context.Background(), repository.LedgerFilter{})
	require.NoError(t, err)
	sale := sales[0]

	p := &recordingPrinter{}
	svc := NewPrinterService(p, st.ledger, "network", "CAJA CLARA", "$", nil)
	ctx := context.Background()

	receipt, err := svc.PrintSale(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, p.jobs, 1)
	assert.Equal(t, sale.Number, receipt.SaleNo)
	assert.Len(t, receipt.Payments, 2)
	assert.Contains(t, string(p.jobs[0]), sale.Number)
	assert.Contains(t, string(p.jobs[0]), "$1000.00")

	_, err = svc.PrintSale(ctx, uuid.New())
	requireCode(t, err, http.StatusNotFound)

	p.err = errors.New("paper out")
	receipt, err = svc.PrintSale(ctx, sale.ID)
	requireCode(t, err, http.StatusServiceUnavailable)
	assert.NotNil(t, receipt)
	assert.False(t, svc.GetStatus(ctx).Connected)
}
