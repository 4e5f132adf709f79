// Package email holds small helpers for applicant contact addresses.
package email

import (
	"strings"
	"unicode"
)

// GreetingName derives a display name from the local part of an address,
// e.g. "jane.doe+uni@example.com" gives "Jane". Returns "Applicant" when
// nothing usable is found.
func GreetingName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}
	if plus := strings.IndexByte(localPart, '+'); plus > 0 {
		localPart = localPart[:plus]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for _, p := range parts {
		if containsLetter(p) {
			return capitalize(p)
		}
	}
	return "Applicant"
}

// Mask hides most of the local part for logging, e.g. "j***@example.com".
func Mask(address string) string {
	at := strings.IndexByte(address, '@')
	if at <= 0 {
		return "***"
	}
	return address[:1] + "***" + address[at:]
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
