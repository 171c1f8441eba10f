package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

var oneHundred = decimal.NewFromInt(100)

// LineItem is one product entry within a sale being assembled. Discount is
// the already-resolved per-unit amount, not a named discount reference.
type LineItem struct {
	ProductID uuid.UUID
	Qty       decimal.Decimal
	Price     decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
}

// Payment is one settlement line recorded against a sale.
type Payment struct {
	Method enums.PaymentMethod
	Amount decimal.Decimal
}

// Totals is the financial summary of a prospective sale. It is always
// recomputed from the line items and payments, never stored as input.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	AmountPaid    decimal.Decimal
	ChangeDue     decimal.Decimal
}

// ComputeTotals derives the sale summary from its line items and payments.
// It is a pure function: no I/O, no error conditions, safe to call on
// every keystroke. A sale with no items totals zero regardless of
// payments; finalizing such a sale is the caller's precondition to check.
func ComputeTotals(items []LineItem, payments []Payment) Totals {
	totals := Totals{
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
		GrandTotal:    decimal.Zero,
		AmountPaid:    decimal.Zero,
		ChangeDue:     decimal.Zero,
	}

	if len(items) == 0 {
		return totals
	}

	for _, item := range items {
		lineSubtotal := item.Price.Mul(item.Qty)
		lineDiscount := item.Discount.Mul(item.Qty)

		// Discount above price violates the input invariant; clamp so the
		// taxable base never goes negative.
		taxableBase := lineSubtotal.Sub(lineDiscount)
		if taxableBase.IsNegative() {
			taxableBase = decimal.Zero
		}
		lineTax := taxableBase.Mul(item.TaxRate.Div(oneHundred))

		totals.Subtotal = totals.Subtotal.Add(lineSubtotal)
		totals.DiscountTotal = totals.DiscountTotal.Add(lineDiscount)
		totals.TaxTotal = totals.TaxTotal.Add(lineTax)
	}

	totals.GrandTotal = totals.Subtotal.Sub(totals.DiscountTotal).Add(totals.TaxTotal)

	for _, payment := range payments {
		totals.AmountPaid = totals.AmountPaid.Add(payment.Amount)
	}

	if change := totals.AmountPaid.Sub(totals.GrandTotal); change.IsPositive() {
		totals.ChangeDue = change
	}

	return totals
}
