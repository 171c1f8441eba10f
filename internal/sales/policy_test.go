package sales

import (
	"testing"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

func TestFillCashPayment(t *testing.T) {
	items := []LineItem{
		{Qty: dec("3"), Price: dec("10000"), Discount: dec("1000"), TaxRate: dec("12")},
	}

	t.Run("fills a single cash payment for the grand total", func(t *testing.T) {
		payments := FillCashPayment(items, nil)
		if len(payments) != 1 {
			t.Fatalf("expected 1 payment, got %d", len(payments))
		}
		if payments[0].Method != enums.PaymentMethodCash {
			t.Fatalf("method = %s, want cash", payments[0].Method)
		}
		if !payments[0].Amount.Equal(dec("30240")) {
			t.Fatalf("amount = %s, want 30240", payments[0].Amount)
		}
	})

	t.Run("leaves entered payments untouched", func(t *testing.T) {
		entered := []Payment{{Method: enums.PaymentMethodCard, Amount: dec("100")}}
		payments := FillCashPayment(items, entered)
		if len(payments) != 1 || payments[0].Method != enums.PaymentMethodCard {
			t.Fatalf("entered payments were modified: %+v", payments)
		}
	})

	t.Run("does nothing without items", func(t *testing.T) {
		if payments := FillCashPayment(nil, nil); len(payments) != 0 {
			t.Fatalf("expected no payments, got %+v", payments)
		}
	})

	t.Run("does nothing when the total is not positive", func(t *testing.T) {
		free := []LineItem{{Qty: dec("1"), Price: dec("0")}}
		if payments := FillCashPayment(free, nil); len(payments) != 0 {
			t.Fatalf("expected no payments, got %+v", payments)
		}
	})
}
