// Package validate holds the field validators shared by the user service
// and the CLI.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern    = regexp.MustCompile(`[A-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern  = regexp.MustCompile(`[!@#$%^&*]`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// IsValidEmail reports whether email looks like local@domain.tld.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword requires 8+ characters with an uppercase letter, a digit
// and one of !@#$%^&*.
func IsStrongPassword(password string) bool {
	return utf8.RuneCountInString(password) >= 8 &&
		upperPattern.MatchString(password) &&
		digitPattern.MatchString(password) &&
		specialPattern.MatchString(password)
}

// IsValidUsername requires 3+ word characters.
func IsValidUsername(username string) bool {
	return len(username) >= 3 && usernamePattern.MatchString(username)
}

// IsValidPhoneNumber reports whether phone has exactly ten digits once
// punctuation is stripped.
func IsValidPhoneNumber(phone string) bool {
	digits := nonDigitPattern.ReplaceAllString(phone, "")
	return len(digits) == 10
}

// IsValidName requires 2+ characters of letters and whitespace.
func IsValidName(name string) bool {
	return len(name) >= 2 && namePattern.MatchString(name)
}

// EmailCheck is the detailed outcome of CheckEmail.
type EmailCheck struct {
	Valid     bool   `json:"valid"`
	Error     string `json:"error,omitempty"`
	Corrected string `json:"corrected,omitempty"`
}

const (
	MsgMissingAt  = "Missing @ symbol"
	MsgMissingTLD = "Domain must have a TLD (.com, .org, etc)"
)

var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"yahooo.com":  "yahoo.com",
	"hotmial.com": "hotmail.com",
}

// CheckEmail trims email and explains why it is rejected. Known domain typos
// are accepted with a corrected address.
func CheckEmail(email string) EmailCheck {
	email = strings.TrimSpace(email)

	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return EmailCheck{Valid: false, Error: MsgMissingAt}
	}
	// Only the segment up to a second "@" counts as the domain.
	domain, _, _ = strings.Cut(domain, "@")

	if !strings.Contains(domain, ".") {
		return EmailCheck{Valid: false, Error: MsgMissingTLD}
	}

	if fixed, typo := domainTypos[domain]; typo {
		return EmailCheck{Valid: true, Corrected: local + "@" + fixed}
	}

	return EmailCheck{Valid: true}
}
