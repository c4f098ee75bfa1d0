package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default lifetime for bearer tokens issued at
// signup and login.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims are the bearer-token claims. The user identifier travels in the
// custom "id" claim; changes here should stay additive to remain readable
// by existing clients.
type Claims struct {
	jwt.RegisteredClaims

	// UserID identifies the authenticated user.
	UserID string `json:"id"`
}

// NewClaims builds minimally-correct claims for a user token.
func NewClaims(userID, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
}
