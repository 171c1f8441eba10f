package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/hisobly/hisobly-backend/pkg/config"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
	"github.com/hisobly/hisobly-backend/pkg/logger"
)

// StatusSource says where the resolved status came from.
type StatusSource string

const (
	// SourceLive means the authoritative tenant service answered.
	SourceLive StatusSource = "live"
	// SourceCache means the local payment fallback entry substituted.
	SourceCache StatusSource = "cache"
	// SourceNone means neither answered; the status is a safe default.
	SourceNone StatusSource = "none"
)

// StatusResult is the resolved entitlement plus its provenance.
type StatusResult struct {
	Status enums.SubscriptionStatus
	Tenant *TenantSubscription
	Source StatusSource
}

// Entitled reports whether the tenant may use the product right now.
func (r StatusResult) Entitled() bool {
	return r.Status.IsEntitled()
}

// ServiceParams groups dependencies for the tenant status service.
type ServiceParams struct {
	Fetcher  Fetcher
	Fallback FallbackStore
	Billing  config.BillingConfig
	Logger   *logger.Logger
}

// Service resolves tenant entitlement, preferring the authoritative
// tenant service and degrading to the local payment fallback cache.
type Service struct {
	fetcher  Fetcher
	fallback FallbackStore
	period   time.Duration
	logg     *logger.Logger

	now func() time.Time
}

// NewService builds a tenant status service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if params.Fallback == nil {
		return nil, errors.New("fallback store is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	period := params.Billing.FallbackPeriod()
	if period <= 0 {
		return nil, errors.New("billing fallback period must be positive")
	}
	return &Service{
		fetcher:  params.Fetcher,
		fallback: params.Fallback,
		period:   period,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

// CurrentStatus resolves the caller's subscription status. The
// authoritative record wins; the fallback cache only substitutes when
// the tenant service cannot be reached. A rejected token is never
// papered over by the cache.
func (s *Service) CurrentStatus(ctx context.Context, tenantID, token string) (StatusResult, error) {
	now := s.now()

	info, err := s.fetcher.FetchMe(ctx, token)
	if err == nil {
		sub := info.Subscription()
		Normalize(sub, now)
		return StatusResult{
			Status: ResolveStatus(sub, now),
			Tenant: sub,
			Source: SourceLive,
		}, nil
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
		return StatusResult{}, err
	}

	s.logg.Error(ctx, "tenant fetch failed, trying fallback cache", err)

	entry, cacheErr := s.fallback.Read(ctx, tenantID, now)
	if cacheErr != nil {
		s.logg.Error(ctx, "fallback cache read failed", cacheErr)
	}
	if entry == nil {
		return StatusResult{
			Status: enums.SubscriptionStatusDisabled,
			Source: SourceNone,
		}, nil
	}

	sub := entry.Subscription()
	return StatusResult{
		Status: ResolveStatus(sub, now),
		Tenant: sub,
		Source: SourceCache,
	}, nil
}

// RecordPaymentSuccess stores the local fallback entry for a confirmed
// payment and resolves the post-payment status. The entry keeps the
// tenant entitled for the configured period even if the authoritative
// record has not caught up yet.
func (s *Service) RecordPaymentSuccess(ctx context.Context, tenantID, token string) (StatusResult, error) {
	now := s.now()
	entry := FallbackEntry{
		Plan:             enums.PlanPro.String(),
		CurrentPeriodEnd: now.Add(s.period),
		UpdatedAt:        now,
	}
	if err := s.fallback.Write(ctx, tenantID, entry); err != nil {
		return StatusResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store payment fallback entry")
	}
	s.logg.Info(ctx, "payment fallback entry stored")

	return s.CurrentStatus(ctx, tenantID, token)
}
