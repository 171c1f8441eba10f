package sales

import (
	"fmt"

	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
)

// ValidateItems rejects malformed line items before they reach the
// engine. The engine itself is total over its inputs; the boundary is
// where bad data fails fast.
func ValidateItems(items []LineItem) error {
	for i, item := range items {
		if !item.Qty.IsPositive() {
			return itemError(i, "quantity must be positive")
		}
		if item.Price.IsNegative() {
			return itemError(i, "price must be non-negative")
		}
		if item.Discount.IsNegative() {
			return itemError(i, "discount must be non-negative")
		}
		if item.Discount.GreaterThan(item.Price) {
			return itemError(i, "discount must not exceed price")
		}
		if item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(oneHundred) {
			return itemError(i, "tax rate must be between 0 and 100")
		}
	}
	return nil
}

// ValidatePayments rejects malformed payment lines.
func ValidatePayments(payments []Payment) error {
	for i, payment := range payments {
		if !payment.Method.IsValid() {
			return paymentError(i, fmt.Sprintf("unknown payment method %q", payment.Method))
		}
		if payment.Amount.IsNegative() {
			return paymentError(i, "amount must be non-negative")
		}
	}
	return nil
}

func itemError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid line item").
		WithDetails(map[string]any{"index": index, "error": message})
}

func paymentError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment").
		WithDetails(map[string]any{"index": index, "error": message})
}
