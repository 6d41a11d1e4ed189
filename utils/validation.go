// utils/validation.go
package utils

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	sendTimeRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// ValidateEmail checks basic email address shape
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidateSendTime checks a 24-hour "HH:MM" string
func ValidateSendTime(t string) bool {
	return sendTimeRegex.MatchString(t)
}

// NormalizePhone reduces an Indian mobile number to its canonical 10-digit
// form, stripping spaces, dashes, parentheses and a +91/91/0 prefix.
func NormalizePhone(phone string) (string, error) {
	digits := nonDigitRegex.ReplaceAllString(phone, "")

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}

	if len(digits) != 10 {
		return "", errors.New("phone number must be 10 digits, optionally prefixed with +91")
	}
	if digits[0] < '6' {
		return "", errors.New("mobile number must start with 6, 7, 8 or 9")
	}
	return digits, nil
}
