package service

import (
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6

	PasswordPolicyMessage = "Password must be at least 6 characters long and contain at least one capital letter and one numeric digit."
)

// IsValidPassword checks the registration password policy: at least six
// characters, one ASCII capital letter and one decimal digit.
func IsValidPassword(p string) bool {
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return false
	}

	var upper, digit bool
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
		if upper && digit {
			return true
		}
	}
	return false
}
