package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the default validity window of an issued token.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims represents the payload embedded in a session token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session tokens (HS256 JWT). The secret is
// injected at construction, never read from ambient state, so tests can run
// with distinct secrets. Rotating the secret invalidates all issued tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec with the given signing secret and session
// TTL. A zero ttl falls back to DefaultSessionTTL.
func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenCodec{secret: secret, ttl: ttl}
}

// TTL returns the configured session duration.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue creates a signed token for the given user id, valid from now until
// now + TTL. The jti claim makes every issued token unique even when two
// sessions open within the same second.
func (c *TokenCodec) Issue(userID string) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "taskmaster",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify parses and validates a token string. It fails on a structurally
// malformed token, a signature mismatch and an expired token; the returned
// error states which, for logging. Callers must not expose the distinction.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
