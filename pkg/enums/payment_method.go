package enums

import "fmt"

// PaymentMethod describes how a buyer settles a sale.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodClick       PaymentMethod = "click"
	PaymentMethodPayme       PaymentMethod = "payme"
	PaymentMethodUzumbank    PaymentMethod = "uzumbank"
	PaymentMethodBonus       PaymentMethod = "bonus"
	PaymentMethodCertificate PaymentMethod = "certificate"
	PaymentMethodOthers      PaymentMethod = "others"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodClick,
	PaymentMethodPayme,
	PaymentMethodUzumbank,
	PaymentMethodBonus,
	PaymentMethodCertificate,
	PaymentMethodOthers,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
