package rate

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrCodeRequired = errors.New("currency code is required")
	ErrCodeTooLong  = errors.New("currency code is too long")
	ErrCodeInvalid  = errors.New("currency code must contain letters only")
)

const maxCodeLen = 12

// NormalizeCode validates a quote-currency code or base-asset symbol
// and returns its canonical lower-case form.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrCodeRequired
	}
	if len(code) > maxCodeLen {
		return "", ErrCodeTooLong
	}
	for _, r := range code {
		if !unicode.IsLetter(r) {
			return "", ErrCodeInvalid
		}
	}
	return code, nil
}
