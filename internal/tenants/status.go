package tenants

import (
	"time"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

// TenantSubscription is the raw entitlement state carried on a tenant
// record. The effective status is always derived from these fields and
// the current time; it is never stored as ground truth.
type TenantSubscription struct {
	Plan             enums.Plan
	IsActive         bool
	TrialUntil       *time.Time
	CurrentPeriodEnd *time.Time
}

// ResolveStatus derives the effective subscription status at the given
// instant. It is total over its input domain: partial or stale tenant
// data degrades to a sensible status instead of failing.
//
// Precedence: absence and deactivation win over everything; a recognized
// plan is judged by its own date; an unrecognized plan falls back to date
// inspection alone.
func ResolveStatus(tenant *TenantSubscription, now time.Time) enums.SubscriptionStatus {
	if tenant == nil {
		return enums.SubscriptionStatusDisabled
	}
	if !tenant.IsActive {
		return enums.SubscriptionStatusDisabled
	}

	switch tenant.Plan {
	case enums.PlanPro:
		if tenant.CurrentPeriodEnd != nil && !tenant.CurrentPeriodEnd.Before(now) {
			return enums.SubscriptionStatusPaidActive
		}
		return enums.SubscriptionStatusPaidOverdue
	case enums.PlanTrial:
		if tenant.TrialUntil != nil && !tenant.TrialUntil.Before(now) {
			return enums.SubscriptionStatusTrialActive
		}
		return enums.SubscriptionStatusTrialExpired
	case enums.PlanTrialExpired:
		return enums.SubscriptionStatusTrialExpired
	}

	// Plan missing or unrecognized, e.g. right after a payment before the
	// authoritative refetch lands. Judge by whichever dates are populated.
	if tenant.CurrentPeriodEnd != nil {
		if !tenant.CurrentPeriodEnd.Before(now) {
			return enums.SubscriptionStatusPaidActive
		}
		return enums.SubscriptionStatusPaidOverdue
	}
	if tenant.TrialUntil != nil {
		if !tenant.TrialUntil.Before(now) {
			return enums.SubscriptionStatusTrialActive
		}
		return enums.SubscriptionStatusTrialExpired
	}
	return enums.SubscriptionStatusDisabled
}

// Normalize cleans a freshly fetched tenant record in place: a trial
// date in the past is cleared, and a "trial" plan label is rewritten to
// "trial_expired". Idempotent; apply once per fetch.
func Normalize(tenant *TenantSubscription, now time.Time) {
	if tenant == nil {
		return
	}
	if tenant.TrialUntil != nil && tenant.TrialUntil.Before(now) {
		tenant.TrialUntil = nil
		if tenant.Plan == enums.PlanTrial {
			tenant.Plan = enums.PlanTrialExpired
		}
	}
}
