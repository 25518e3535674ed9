package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims are the fields the front-end reads from an API token.
// The signature belongs to the API and is never checked here.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Inspect decodes token without verifying it. Opaque (non-JWT) tokens return ErrTokenInvalid.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of token, if it has one
func ExpiresAt(token string) (time.Time, bool) {
	claims, err := Inspect(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// CheckExpiry returns ErrTokenExpired when token carries an exp claim at or before now.
// Tokens without exp are left to the API to judge.
func CheckExpiry(token string, now time.Time) error {
	exp, ok := ExpiresAt(token)
	if ok && !now.Before(exp) {
		return ErrTokenExpired
	}
	return nil
}
