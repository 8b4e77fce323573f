package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the default work factor for password hashing.
const DefaultBcryptCost = 8

// HashPassword hashes a plaintext password with bcrypt. The salt embedded
// by bcrypt makes repeated calls on the same input produce distinct hashes.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// Returns nil on match, bcrypt.ErrMismatchedHashAndPassword on mismatch and
// a format error for malformed hash input.
func VerifyPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
