package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hisobly/hisobly-backend/api/middleware"
	"github.com/hisobly/hisobly-backend/api/responses"
	"github.com/hisobly/hisobly-backend/internal/tenants"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
	"github.com/hisobly/hisobly-backend/pkg/logger"
)

// TenantStatusService resolves subscription entitlement for the caller's tenant.
type TenantStatusService interface {
	CurrentStatus(ctx context.Context, tenantID, token string) (tenants.StatusResult, error)
	RecordPaymentSuccess(ctx context.Context, tenantID, token string) (tenants.StatusResult, error)
}

type subscriptionStatusResponse struct {
	Status           enums.SubscriptionStatus `json:"status"`
	Entitled         bool                     `json:"entitled"`
	Source           tenants.StatusSource     `json:"source"`
	Plan             string                   `json:"plan,omitempty"`
	TrialUntil       *time.Time               `json:"trial_until,omitempty"`
	CurrentPeriodEnd *time.Time               `json:"current_period_end,omitempty"`
}

// TenantStatus reports the caller's effective subscription status.
func TenantStatus(svc TenantStatusService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, token, err := tenantCredentials(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CurrentStatus(r.Context(), tenantID, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toStatusResponse(result))
	}
}

// BillingPaymentSuccess records a confirmed subscription payment and
// returns the refreshed status.
func BillingPaymentSuccess(svc TenantStatusService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, token, err := tenantCredentials(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecordPaymentSuccess(r.Context(), tenantID, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toStatusResponse(result))
	}
}

func tenantCredentials(r *http.Request) (string, string, error) {
	tenantID := middleware.TenantIDFromContext(r.Context())
	token := middleware.AccessTokenFromContext(r.Context())
	if tenantID == "" || token == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing tenant context")
	}
	return tenantID, token, nil
}

func toStatusResponse(result tenants.StatusResult) subscriptionStatusResponse {
	resp := subscriptionStatusResponse{
		Status:   result.Status,
		Entitled: result.Entitled(),
		Source:   result.Source,
	}
	if result.Tenant != nil {
		resp.Plan = result.Tenant.Plan.String()
		resp.TrialUntil = result.Tenant.TrialUntil
		resp.CurrentPeriodEnd = result.Tenant.CurrentPeriodEnd
	}
	return resp
}
