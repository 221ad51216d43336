package service

import (
	"context"
	"time"

	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/repository"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// DayTotals is the income and expense of one calendar day
type DayTotals struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// DashboardKPIs summarises the current month
type DashboardKPIs struct {
	Month              string                     `json:"month"`
	TotalIncome        decimal.Decimal            `json:"total_income"`
	TotalExpenses      decimal.Decimal            `json:"total_expenses"`
	NetResult          decimal.Decimal            `json:"net_result"`
	SalesCount         int                        `json:"sales_count"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
	IncomeByMethod     map[string]decimal.Decimal `json:"income_by_method"`
	Last7Days          []DayTotals                `json:"last_7_days"`
}

// DashboardService computes owner KPIs from the ledger
type DashboardService struct {
	ledger       repository.LedgerRepository
	categoryRepo repository.ExpenseCategoryRepository
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(ledger repository.LedgerRepository, categoryRepo repository.ExpenseCategoryRepository) *DashboardService {
	return &DashboardService{ledger: ledger, categoryRepo: categoryRepo, now: time.Now}
}

// GetKPIs returns the month-to-date figures and the last seven days
func (s *DashboardService) GetKPIs(ctx context.Context) (*DashboardKPIs, error) {
	now := s.now()
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	weekStart := today.AddDate(0, 0, -6)

	// one read covering both windows
	from := monthStart
	if weekStart.Before(from) {
		from = weekStart
	}
	to := monthEnd
	if tomorrow := today.AddDate(0, 0, 1); tomorrow.After(to) {
		to = tomorrow
	}
	filter := repository.LedgerFilter{From: from, To: to}

	sales, err := s.ledger.ListSales(ctx, filter)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read sales", err)
	}
	expenses, err := s.ledger.ListExpenses(ctx, filter)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read expenses", err)
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewCollaboratorError("could not read expense categories", err)
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	month := repository.LedgerFilter{From: monthStart, To: monthEnd}
	kpis := &DashboardKPIs{
		Month:              monthStart.Format("2006-01"),
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		ExpensesByCategory: map[string]decimal.Decimal{},
		IncomeByMethod:     map[string]decimal.Decimal{},
	}
	for _, m := range enum.PaymentMethods() {
		kpis.IncomeByMethod[m.String()] = decimal.Zero
	}

	days := make(map[string]*DayTotals, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDate(0, 0, i).Format(dayLayout)
		kpis.Last7Days = append(kpis.Last7Days, DayTotals{Date: d, Income: decimal.Zero, Expense: decimal.Zero})
	}
	for i := range kpis.Last7Days {
		days[kpis.Last7Days[i].Date] = &kpis.Last7Days[i]
	}

	for i := range sales {
		sale := &sales[i]
		ts := sale.Timestamp.In(loc)
		if month.Contains(ts) {
			kpis.TotalIncome = kpis.TotalIncome.Add(sale.TotalAfter)
			kpis.SalesCount++
			method := sale.LedgerMethod()
			kpis.IncomeByMethod[method] = kpis.IncomeByMethod[method].Add(sale.TotalAfter)
		}
		if d, ok := days[ts.Format(dayLayout)]; ok {
			d.Income = d.Income.Add(sale.TotalAfter)
		}
	}

	for _, e := range expenses {
		date := e.Date.In(loc)
		if month.Contains(date) {
			kpis.TotalExpenses = kpis.TotalExpenses.Add(e.Amount)
			name := names[e.CategoryID]
			if name == "" {
				name = e.CategoryID
			}
			kpis.ExpensesByCategory[name] = kpis.ExpensesByCategory[name].Add(e.Amount)
		}
		if d, ok := days[date.Format(dayLayout)]; ok {
			d.Expense = d.Expense.Add(e.Amount)
		}
	}

	kpis.NetResult = kpis.TotalIncome.Sub(kpis.TotalExpenses)
	return kpis, nil
}
