package app

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is what the client can learn from a session token without the
// signing key. Opaque (non-JWT) tokens yield zero claims.
type tokenClaims struct {
	Role      string
	ExpiresAt time.Time
}

func readTokenClaims(token string) tokenClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return tokenClaims{}
	}
	out := tokenClaims{}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out
}

func (c tokenClaims) expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
