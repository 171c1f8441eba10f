package sales

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertTotals(t *testing.T, got, want Totals) {
	t.Helper()
	if !got.Subtotal.Equal(want.Subtotal) {
		t.Fatalf("subtotal = %s, want %s", got.Subtotal, want.Subtotal)
	}
	if !got.DiscountTotal.Equal(want.DiscountTotal) {
		t.Fatalf("discount total = %s, want %s", got.DiscountTotal, want.DiscountTotal)
	}
	if !got.TaxTotal.Equal(want.TaxTotal) {
		t.Fatalf("tax total = %s, want %s", got.TaxTotal, want.TaxTotal)
	}
	if !got.GrandTotal.Equal(want.GrandTotal) {
		t.Fatalf("grand total = %s, want %s", got.GrandTotal, want.GrandTotal)
	}
	if !got.AmountPaid.Equal(want.AmountPaid) {
		t.Fatalf("amount paid = %s, want %s", got.AmountPaid, want.AmountPaid)
	}
	if !got.ChangeDue.Equal(want.ChangeDue) {
		t.Fatalf("change due = %s, want %s", got.ChangeDue, want.ChangeDue)
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		payments []Payment
		want     Totals
	}{
		{
			name: "discounted taxed line with cash overpayment",
			items: []LineItem{
				{Qty: dec("3"), Price: dec("10000"), Discount: dec("1000"), TaxRate: dec("12")},
			},
			payments: []Payment{
				{Method: enums.PaymentMethodCash, Amount: dec("31000")},
			},
			want: Totals{
				Subtotal:      dec("30000"),
				DiscountTotal: dec("3000"),
				TaxTotal:      dec("3240"),
				GrandTotal:    dec("30240"),
				AmountPaid:    dec("31000"),
				ChangeDue:     dec("760"),
			},
		},
		{
			name:  "no items zeroes everything even with payments",
			items: nil,
			payments: []Payment{
				{Method: enums.PaymentMethodCard, Amount: dec("5000")},
			},
			want: Totals{
				Subtotal:      decimal.Zero,
				DiscountTotal: decimal.Zero,
				TaxTotal:      decimal.Zero,
				GrandTotal:    decimal.Zero,
				AmountPaid:    decimal.Zero,
				ChangeDue:     decimal.Zero,
			},
		},
		{
			name: "discount above price clamps the taxable base",
			items: []LineItem{
				{Qty: dec("2"), Price: dec("1000"), Discount: dec("1500"), TaxRate: dec("12")},
			},
			want: Totals{
				Subtotal:      dec("2000"),
				DiscountTotal: dec("3000"),
				TaxTotal:      decimal.Zero,
				GrandTotal:    dec("-1000"),
				AmountPaid:    decimal.Zero,
				ChangeDue:     decimal.Zero,
			},
		},
		{
			name: "underpayment never yields negative change",
			items: []LineItem{
				{Qty: dec("1"), Price: dec("20000")},
			},
			payments: []Payment{
				{Method: enums.PaymentMethodCard, Amount: dec("15000")},
			},
			want: Totals{
				Subtotal:      dec("20000"),
				DiscountTotal: decimal.Zero,
				TaxTotal:      decimal.Zero,
				GrandTotal:    dec("20000"),
				AmountPaid:    dec("15000"),
				ChangeDue:     decimal.Zero,
			},
		},
		{
			name: "mixed payment methods accumulate",
			items: []LineItem{
				{Qty: dec("1"), Price: dec("50000")},
			},
			payments: []Payment{
				{Method: enums.PaymentMethodCard, Amount: dec("20000")},
				{Method: enums.PaymentMethodClick, Amount: dec("20000")},
				{Method: enums.PaymentMethodCash, Amount: dec("15000")},
			},
			want: Totals{
				Subtotal:      dec("50000"),
				DiscountTotal: decimal.Zero,
				TaxTotal:      decimal.Zero,
				GrandTotal:    dec("50000"),
				AmountPaid:    dec("55000"),
				ChangeDue:     dec("5000"),
			},
		},
		{
			name: "fractional quantity keeps decimal precision",
			items: []LineItem{
				{Qty: dec("0.5"), Price: dec("7000"), TaxRate: dec("12")},
				{Qty: dec("1.25"), Price: dec("4000"), Discount: dec("200")},
			},
			want: Totals{
				Subtotal:      dec("8500"),
				DiscountTotal: dec("250"),
				TaxTotal:      dec("420"),
				GrandTotal:    dec("8670"),
				AmountPaid:    decimal.Zero,
				ChangeDue:     decimal.Zero,
			},
		},
		{
			name: "tax applies per line after its own discount",
			items: []LineItem{
				{Qty: dec("2"), Price: dec("3000"), Discount: dec("500"), TaxRate: dec("15")},
				{Qty: dec("1"), Price: dec("10000"), TaxRate: dec("0")},
			},
			want: Totals{
				Subtotal:      dec("16000"),
				DiscountTotal: dec("1000"),
				TaxTotal:      dec("750"),
				GrandTotal:    dec("15750"),
				AmountPaid:    decimal.Zero,
				ChangeDue:     decimal.Zero,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items, tt.payments)
			assertTotals(t, got, tt.want)
		})
	}
}

func TestComputeTotalsIsDeterministic(t *testing.T) {
	items := []LineItem{
		{Qty: dec("3"), Price: dec("10000"), Discount: dec("1000"), TaxRate: dec("12")},
	}
	payments := []Payment{{Method: enums.PaymentMethodCash, Amount: dec("30240")}}

	first := ComputeTotals(items, payments)
	second := ComputeTotals(items, payments)
	assertTotals(t, second, first)
}

func TestComputeTotalsAddsAcrossItemSets(t *testing.T) {
	setA := []LineItem{
		{Qty: dec("3"), Price: dec("10000"), Discount: dec("1000"), TaxRate: dec("12")},
		{Qty: dec("0.5"), Price: dec("7000"), TaxRate: dec("12")},
	}
	setB := []LineItem{
		{Qty: dec("2"), Price: dec("3000"), Discount: dec("500"), TaxRate: dec("15")},
	}

	partA := ComputeTotals(setA, nil)
	partB := ComputeTotals(setB, nil)
	combined := ComputeTotals(append(append([]LineItem{}, setA...), setB...), nil)

	assertTotals(t, combined, Totals{
		Subtotal:      partA.Subtotal.Add(partB.Subtotal),
		DiscountTotal: partA.DiscountTotal.Add(partB.DiscountTotal),
		TaxTotal:      partA.TaxTotal.Add(partB.TaxTotal),
		GrandTotal:    partA.GrandTotal.Add(partB.GrandTotal),
		AmountPaid:    decimal.Zero,
		ChangeDue:     decimal.Zero,
	})

	reversed := ComputeTotals(append(append([]LineItem{}, setB...), setA...), nil)
	assertTotals(t, reversed, combined)
}
