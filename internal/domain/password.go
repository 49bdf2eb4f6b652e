package domain

import "strings"

const (
	passwordMinLength = 8
	passwordMaxLength = 100

	passwordSymbols = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"
)

// ValidatePassword checks a candidate password against the acceptance policy:
// length in [8,100] with at least one uppercase letter, one lowercase letter,
// one digit, and one symbol from the fixed punctuation set. It returns a
// human-readable reason when the candidate is rejected.
func ValidatePassword(candidate string) error {
	if len(candidate) < passwordMinLength || len(candidate) > passwordMaxLength {
		return ErrPasswordLength
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range candidate {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, c):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordUppercase
	case !hasLower:
		return ErrPasswordLowercase
	case !hasDigit:
		return ErrPasswordDigit
	case !hasSymbol:
		return ErrPasswordSymbol
	}
	return nil
}

// Password policy violations. Each maps to a distinct rejection reason so
// callers can surface actionable messages.
var (
	ErrPasswordLength    = policyError("password must be between 8 and 100 characters")
	ErrPasswordUppercase = policyError("password must contain at least one uppercase letter")
	ErrPasswordLowercase = policyError("password must contain at least one lowercase letter")
	ErrPasswordDigit     = policyError("password must contain at least one digit")
	ErrPasswordSymbol    = policyError("password must contain at least one special character")
)

type policyError string

func (e policyError) Error() string { return string(e) }
