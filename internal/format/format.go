// Package format normalizes user-supplied strings before validation and storage.
package format

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonDigit      = regexp.MustCompile(`\D`)
	specialChar   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// Email lowercases and trims an address.
func Email(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// Username lowercases and joins whitespace runs with underscores.
func Username(username string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.ToLower(username), "_"))
}

// Country uppercases and trims a country code.
func Country(country string) string {
	return strings.TrimSpace(strings.ToUpper(country))
}

// PhoneNumber keeps the last ten digits.
func PhoneNumber(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	if len(digits) > 10 {
		return digits[len(digits)-10:]
	}
	return digits
}

// Capitalize uppercases the first rune and lowercases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// RemoveSpecialChars drops everything but ASCII letters, digits and whitespace.
func RemoveSpecialChars(s string) string {
	return specialChar.ReplaceAllString(s, "")
}

// CleanWhitespace trims and collapses whitespace runs to single spaces.
func CleanWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ExtractDomain returns the text between the first and second "@", or "" if
// email has none.
func ExtractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
