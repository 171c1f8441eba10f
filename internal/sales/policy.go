package sales

import (
	"github.com/hisobly/hisobly-backend/pkg/enums"
)

// FillCashPayment implements the register convention of settling a sale
// with a single cash payment for the full amount when the cashier entered
// no payment lines. It is a policy layered on top of the engine; the
// engine itself never invents payments.
func FillCashPayment(items []LineItem, payments []Payment) []Payment {
	if len(payments) > 0 || len(items) == 0 {
		return payments
	}
	grand := ComputeTotals(items, nil).GrandTotal
	if !grand.IsPositive() {
		return payments
	}
	return []Payment{{Method: enums.PaymentMethodCash, Amount: grand}}
}
