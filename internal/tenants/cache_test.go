package tenants

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) SubscriptionCacheKey(tenantID string) string {
	return "hb:cache:subscription:" + tenantID
}

func TestFallbackStoreRoundTrip(t *testing.T) {
	kv := newFakeKV()
	store := &redisFallbackStore{kv: kv, keys: kv}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	entry := FallbackEntry{
		Plan:             enums.PlanPro.String(),
		CurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
		UpdatedAt:        now,
	}
	if err := store.Write(context.Background(), "t1", entry); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := store.Read(context.Background(), "t1", now)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got == nil {
		t.Fatal("expected entry, got nil")
	}
	if got.Plan != entry.Plan || !got.CurrentPeriodEnd.Equal(entry.CurrentPeriodEnd) {
		t.Fatalf("entry round-trip mismatch: %+v", got)
	}

	sub := got.Subscription()
	if !sub.IsActive {
		t.Fatal("substituted tenant must be active")
	}
	if ResolveStatus(sub, now) != enums.SubscriptionStatusPaidActive {
		t.Fatalf("substituted status = %s, want paid_active", ResolveStatus(sub, now))
	}
}

func TestFallbackStoreMissingKey(t *testing.T) {
	kv := newFakeKV()
	store := &redisFallbackStore{kv: kv, keys: kv}

	got, err := store.Read(context.Background(), "t1", time.Now())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil entry, got %+v", got)
	}
}

func TestFallbackStorePurgesExpiredEntry(t *testing.T) {
	kv := newFakeKV()
	store := &redisFallbackStore{kv: kv, keys: kv}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	stale := FallbackEntry{
		Plan:             enums.PlanPro.String(),
		CurrentPeriodEnd: now.Add(-time.Hour),
		UpdatedAt:        now.Add(-31 * 24 * time.Hour),
	}
	raw, err := json.Marshal(stale)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	key := kv.SubscriptionCacheKey("t1")
	kv.values[key] = string(raw)

	got, err := store.Read(context.Background(), "t1", now)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired entry to be dropped, got %+v", got)
	}
	if _, ok := kv.values[key]; ok {
		t.Fatal("expired entry was not purged")
	}
}

func TestFallbackStoreDropsCorruptEntry(t *testing.T) {
	kv := newFakeKV()
	store := &redisFallbackStore{kv: kv, keys: kv}
	key := kv.SubscriptionCacheKey("t1")
	kv.values[key] = "{not json"

	got, err := store.Read(context.Background(), "t1", time.Now())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil entry, got %+v", got)
	}
	if _, ok := kv.values[key]; ok {
		t.Fatal("corrupt entry was not dropped")
	}
}

func TestFallbackStoreSkipsWriteForPastPeriod(t *testing.T) {
	kv := newFakeKV()
	store := &redisFallbackStore{kv: kv, keys: kv}

	entry := FallbackEntry{
		Plan:             enums.PlanPro.String(),
		CurrentPeriodEnd: time.Now().Add(-time.Hour),
		UpdatedAt:        time.Now(),
	}
	if err := store.Write(context.Background(), "t1", entry); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(kv.values) != 0 {
		t.Fatalf("expected no write, got %v", kv.values)
	}
}
