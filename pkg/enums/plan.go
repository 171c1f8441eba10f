package enums

import "fmt"

// Plan is the subscription tier label carried on a tenant record. It is
// distinct from the effective SubscriptionStatus, which also depends on
// dates and the active flag.
type Plan string

const (
	PlanPro          Plan = "pro"
	PlanTrial        Plan = "trial"
	PlanTrialExpired Plan = "trial_expired"
)

var validPlans = []Plan{
	PlanPro,
	PlanTrial,
	PlanTrialExpired,
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	return string(p)
}

// IsValid reports whether the value is known. Tenant records may carry
// unrecognized plan labels; callers fall back to date inspection then.
func (p Plan) IsValid() bool {
	for _, candidate := range validPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlan converts raw input into a Plan.
func ParsePlan(value string) (Plan, error) {
	for _, candidate := range validPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan %q", value)
}
