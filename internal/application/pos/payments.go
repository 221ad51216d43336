package pos

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/entity"
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Payments is the ordered list of tenders collected against a total
type Payments struct {
	entries []entity.PaymentEntry
}

// PaymentPatch changes the method, the amount, or both, of one entry
type PaymentPatch struct {
	Method *enum.PaymentMethod
	Amount *decimal.Decimal
}

// Add appends an entry prefilled with whatever is still owed, or zero if nothing is
func (p *Payments) Add(method enum.PaymentMethod, total decimal.Decimal) entity.PaymentEntry {
	entry := entity.PaymentEntry{Method: method, Amount: p.Remaining(total)}
	p.entries = append(p.entries, entry)
	return entry
}

// Remove drops the entry at index; an out-of-range index is ignored
func (p *Payments) Remove(index int) bool {
	if index < 0 || index >= len(p.entries) {
		return false
	}
	p.entries = append(p.entries[:index], p.entries[index+1:]...)
	return true
}

// Update applies patch to the entry at index. Out-of-range indexes are ignored;
// invalid methods or negative amounts are rejected without changing anything.
func (p *Payments) Update(index int, patch PaymentPatch) (bool, error) {
	if index < 0 || index >= len(p.entries) {
		return false, nil
	}
	if patch.Method != nil && !patch.Method.IsValid() {
		return false, ErrInvalidPaymentMethod
	}
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return false, ErrNegativePaymentAmount
	}
	if patch.Method != nil {
		p.entries[index].Method = *patch.Method
	}
	if patch.Amount != nil {
		p.entries[index].Amount = *patch.Amount
	}
	return true, nil
}

func (p *Payments) Reset() {
	p.entries = nil
}

func (p *Payments) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entries in order
func (p *Payments) Entries() []entity.PaymentEntry {
	out := make([]entity.PaymentEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

func (p *Payments) Sum() decimal.Decimal {
	return SumPayments(p.entries)
}

// Remaining is what is still owed against total, never negative
func (p *Payments) Remaining(total decimal.Decimal) decimal.Decimal {
	return decimal.Max(total.Sub(p.Sum()), decimal.Zero)
}

// Change is what is handed back over total, never negative
func (p *Payments) Change(total decimal.Decimal) decimal.Decimal {
	return decimal.Max(p.Sum().Sub(total), decimal.Zero)
}

// SumPayments adds up every entry amount
func SumPayments(entries []entity.PaymentEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// SummarizeMethods names the single method used, "mixed" for several, or "" for none
func SummarizeMethods(entries []entity.PaymentEntry) string {
	switch len(entries) {
	case 0:
		return ""
	case 1:
		return entries[0].Method.String()
	}
	return enum.PaymentSummaryMixed
}
