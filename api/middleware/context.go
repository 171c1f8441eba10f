package middleware

import "context"

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxTenantID    contextKey = "tenant_id"
	ctxStoreID     contextKey = "store_id"
	ctxRole        contextKey = "actor_role"
	ctxAccessToken contextKey = "access_token"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func TenantIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxTenantID)
}

func StoreIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxStoreID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// AccessTokenFromContext returns the raw bearer token so downstream
// services can call collaborators on the caller's behalf.
func AccessTokenFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAccessToken)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithTenantID injects the tenant identifier into the context.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTenantID, tenantID)
}

// WithStoreID injects the store identifier into the context for downstream handlers.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}

// WithAccessToken injects the raw bearer token into the context.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessToken, token)
}
