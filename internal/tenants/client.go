package tenants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hisobly/hisobly-backend/pkg/config"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
)

// TenantInfo is the tenant record as returned by the authoritative
// tenant service.
type TenantInfo struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Plan             string     `json:"plan"`
	IsActive         bool       `json:"is_active"`
	TrialUntil       *time.Time `json:"trial_until"`
	CurrentPeriodEnd *time.Time `json:"current_period_end"`
}

// Subscription maps the wire record into the resolver's input shape.
func (t *TenantInfo) Subscription() *TenantSubscription {
	if t == nil {
		return nil
	}
	return &TenantSubscription{
		Plan:             enums.Plan(t.Plan),
		IsActive:         t.IsActive,
		TrialUntil:       t.TrialUntil,
		CurrentPeriodEnd: t.CurrentPeriodEnd,
	}
}

// Fetcher retrieves the caller's tenant record from the authoritative
// source.
type Fetcher interface {
	FetchMe(ctx context.Context, token string) (*TenantInfo, error)
}

// Client is the HTTP fetcher against the tenant service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds the tenant service client from config.
func NewClient(cfg config.TenantAPIConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchMe loads the tenant record for the bearer token's tenant.
func (c *Client) FetchMe(ctx context.Context, token string) (*TenantInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tenants/me", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build tenant request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "tenant service unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant service rejected credentials")
	case resp.StatusCode == http.StatusNotFound:
		// No tenant record behind this token; the resolver treats that as disabled.
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("tenant service returned status %d", resp.StatusCode))
	}

	var payload struct {
		Data *TenantInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode tenant response")
	}
	return payload.Data, nil
}
