package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// EmailPattern is a pragmatic email syntax check: one @, no whitespace,
// and a dot in the domain part. Full RFC 5322 parsing is not attempted.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MinPasswordLen is the minimum password length before hashing.
	MinPasswordLen = 7
	// MaxNameLen caps the name field.
	MaxNameLen = 128
)

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Lookups and the uniqueness constraint operate on the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks a normalized name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}
	return nil
}

// ValidateEmail checks a normalized email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("email is invalid")
	}
	return nil
}

// ValidatePassword checks the plaintext password before it is hashed.
// The literal substring "password" is rejected in any casing.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf(`password cannot contain "password"`)
	}
	return nil
}

// ValidateAge checks the age field.
func ValidateAge(age int64) error {
	if age < 0 {
		return fmt.Errorf("age must be a positive number")
	}
	return nil
}

// ValidateDescription checks a task description.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("description is required")
	}
	return nil
}
