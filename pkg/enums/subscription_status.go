package enums

import "fmt"

// SubscriptionStatus is the effective entitlement state derived from a
// tenant record and the current time. It is recomputed on every
// evaluation and never stored as ground truth.
type SubscriptionStatus string

const (
	SubscriptionStatusPaidActive   SubscriptionStatus = "paid_active"
	SubscriptionStatusPaidOverdue  SubscriptionStatus = "paid_overdue"
	SubscriptionStatusTrialActive  SubscriptionStatus = "trial_active"
	SubscriptionStatusTrialExpired SubscriptionStatus = "trial_expired"
	SubscriptionStatusDisabled     SubscriptionStatus = "disabled"
)

var validSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusPaidActive,
	SubscriptionStatusPaidOverdue,
	SubscriptionStatusTrialActive,
	SubscriptionStatusTrialExpired,
	SubscriptionStatusDisabled,
}

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SubscriptionStatus) IsValid() bool {
	for _, candidate := range validSubscriptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsEntitled reports whether the status grants access to paid features.
func (s SubscriptionStatus) IsEntitled() bool {
	return s == SubscriptionStatusPaidActive || s == SubscriptionStatusTrialActive
}

// ParseSubscriptionStatus converts raw input into a SubscriptionStatus.
func ParseSubscriptionStatus(value string) (SubscriptionStatus, error) {
	for _, candidate := range validSubscriptionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription status %q", value)
}
