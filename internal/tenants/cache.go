package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgredis "github.com/hisobly/hisobly-backend/pkg/redis"
)

// FallbackEntry is the denormalized subscription snapshot written after a
// successful payment. It is a liveness fallback, not a correctness
// source: the authoritative fetch always supersedes it.
type FallbackEntry struct {
	Plan             string    `json:"plan"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Subscription converts the cached entry into a substitute tenant
// record. IsActive is forced true: a tenant that just paid is active.
func (e FallbackEntry) Subscription() *TenantSubscription {
	end := e.CurrentPeriodEnd
	return &TenantSubscription{
		Plan:             enums.Plan(e.Plan),
		IsActive:         true,
		CurrentPeriodEnd: &end,
	}
}

// FallbackStore persists the per-tenant subscription fallback entry.
type FallbackStore interface {
	Read(ctx context.Context, tenantID string, now time.Time) (*FallbackEntry, error)
	Write(ctx context.Context, tenantID string, entry FallbackEntry) error
}

type keyBuilder interface {
	SubscriptionCacheKey(tenantID string) string
}

type redisFallbackStore struct {
	kv   pkgredis.KV
	keys keyBuilder
}

// NewFallbackStore builds the redis-backed fallback store.
func NewFallbackStore(client *pkgredis.Client) FallbackStore {
	return &redisFallbackStore{kv: client, keys: client}
}

// Read returns the cached entry, purging it first when its period has
// already ended (self-invalidation). A missing key is not an error.
func (s *redisFallbackStore) Read(ctx context.Context, tenantID string, now time.Time) (*FallbackEntry, error) {
	key := s.keys.SubscriptionCacheKey(tenantID)
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry FallbackEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// A corrupt entry is as good as absent; drop it.
		_ = s.kv.Del(ctx, key)
		return nil, nil
	}

	if entry.CurrentPeriodEnd.Before(now) {
		_ = s.kv.Del(ctx, key)
		return nil, nil
	}
	return &entry, nil
}

func (s *redisFallbackStore) Write(ctx context.Context, tenantID string, entry FallbackEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	ttl := time.Until(entry.CurrentPeriodEnd)
	if ttl <= 0 {
		return nil
	}
	return s.kv.Set(ctx, s.keys.SubscriptionCacheKey(tenantID), raw, ttl)
}
