package pos

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountSpec is the discount the cashier asked for
type DiscountSpec struct {
	Mode  enum.DiscountMode `json:"mode"`
	Value decimal.Decimal   `json:"value"`
}

// DiscountResult is the applied discount and the total left after it
type DiscountResult struct {
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeDiscount applies spec to subtotal.
//
// Percent values are clamped to [0,100] and the discount is rounded half-up to
// whole currency units. Amount values are clamped to [0, subtotal]. A non-positive
// value or mode none yields no discount. The total never goes below zero.
func ComputeDiscount(subtotal decimal.Decimal, spec DiscountSpec) DiscountResult {
	discount := decimal.Zero

	if spec.Value.IsPositive() {
		switch spec.Mode {
		case enum.DiscountPercent:
			pct := clamp(spec.Value, decimal.Zero, hundred)
			discount = subtotal.Mul(pct).Div(hundred).Round(0)
		case enum.DiscountAmount:
			discount = clamp(spec.Value, decimal.Zero, decimal.Max(subtotal, decimal.Zero))
		}
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return DiscountResult{Discount: discount, Total: total}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
