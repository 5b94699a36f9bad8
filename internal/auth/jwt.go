package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWTSecret []byte

// SetSecret sets the JWT secret key (e.g., from config)
func SetSecret(secret string) {
	JWTSecret = []byte(secret)
}

// Claims represents the JWT payload. Tokens issued by the identity service
// carry a numeric tenant id, older ones only a slug.
type Claims struct {
	TenantID   int64  `json:"tenant_id,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT scoped to the given tenant.
// Token issuance is not exposed over HTTP; this exists for tests and tooling.
func GenerateToken(tenantID int64, tenantSlug string) (string, error) {
	if len(JWTSecret) == 0 {
		return "", errors.New("JWT secret not set")
	}

	claims := Claims{
		TenantID:   tenantID,
		TenantSlug: tenantSlug,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

// ReadClaims parses a presented bearer token. Malformed, expired or
// otherwise invalid tokens yield nil, never an error: the caller falls
// through to its next resolution strategy.
func ReadClaims(tokenStr string) *Claims {
	if tokenStr == "" || len(JWTSecret) == 0 {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
