package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiresAt(t *testing.T) {
	token, err := Sign(NewClaims("7", "owner", time.Hour), "secret")
	require.NoError(t, err)

	exp, ok := ExpiresAt(token)
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestCheckExpiry(t *testing.T) {
	token, err := Sign(NewClaims("7", "client", time.Minute), "secret")
	require.NoError(t, err)

	assert.NoError(t, CheckExpiry(token, time.Now()))
	assert.ErrorIs(t, CheckExpiry(token, time.Now().Add(2*time.Minute)), ErrTokenExpired)
}

func TestOpaqueTokens(t *testing.T) {
	_, ok := ExpiresAt("12|plainTextSanctumToken")
	assert.False(t, ok)
	assert.NoError(t, CheckExpiry("t1", time.Now()))

	_, err := Inspect("t1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// Sign issues an HS256 token the way the API does
func Sign(claims Claims, secret string) (string, error) {
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(time.Now())
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// NewClaims builds claims for subject expiring after ttl
func NewClaims(subject, role string, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "babimmob-api",
		},
	}
}
