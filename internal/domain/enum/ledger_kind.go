package enum

// LedgerKind distinguishes income rows from expense rows in reports
type LedgerKind string

const (
	LedgerIncome  LedgerKind = "income"
	LedgerExpense LedgerKind = "expense"
)

func (k LedgerKind) String() string {
	return string(k)
}

// ParseLedgerKind accepts "income", "expense" or an empty/"all" filter.
func ParseLedgerKind(s string) (LedgerKind, bool) {
	switch s {
	case "", "all":
		return "", true
	case string(LedgerIncome):
		return LedgerIncome, true
	case string(LedgerExpense):
		return LedgerExpense, true
	}
	return "", false
}
