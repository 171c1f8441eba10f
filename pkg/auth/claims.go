package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hisobly/hisobly-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	TenantID      uuid.UUID
	ActiveStoreID *uuid.UUID
	Role          enums.MemberRole
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID        `json:"user_id"`
	TenantID      uuid.UUID        `json:"tenant_id"`
	ActiveStoreID *uuid.UUID       `json:"active_store_id,omitempty"`
	Role          enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}
