package utils

import (
	"errors"
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/google/uuid"       // Session ids
)

// SessionClaims are carried by the admin session cookie.
type SessionClaims struct {
	Username             string `json:"username"` // Authenticated admin
	jwt.RegisteredClaims        // ID is the session id, ExpiresAt the hard expiry
}

// Lifetime returns the total validity window of the session.
func (c *SessionClaims) Lifetime() time.Duration {
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(c.IssuedAt.Time)
}

// NeedsRenewal reports whether the session is past the halfway point of its lifetime.
func (c *SessionClaims) NeedsRenewal(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Sub(now) < c.Lifetime()/2
}

// GenerateSessionToken creates a signed session token for username
func GenerateSessionToken(username, secret string, issuedAt time.Time, ttl time.Duration) (string, *SessionClaims, error) {
	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString([]byte(secret))          // Sign the token with the secret
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseSessionToken parses and validates a session token string
func ParseSessionToken(tokenStr, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method: " + token.Method.Alg())
		}
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid && claims.Username != "" {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}
