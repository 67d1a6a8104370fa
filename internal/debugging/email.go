package debugging

import (
	"fmt"
	"io"
	"strings"
)

// EmailStatus classifies an email address.
type EmailStatus int

const (
	// EmailValid means the address is non-empty and contains "@".
	EmailValid EmailStatus = iota
	// EmailInvalidEmpty means the address is absent or empty.
	EmailInvalidEmpty
	// EmailInvalidNoAtSign means the address is non-empty but has no "@".
	EmailInvalidNoAtSign
)

// String returns the verdict line printed by the validator.
func (s EmailStatus) String() string {
	switch s {
	case EmailValid:
		return "Email is valid"
	case EmailInvalidEmpty:
		return "Email is invalid (null or empty)"
	case EmailInvalidNoAtSign:
		return "Email is invalid"
	default:
		return fmt.Sprintf("EmailStatus(%d)", int(s))
	}
}

// Valid reports whether s is EmailValid.
func (s EmailStatus) Valid() bool { return s == EmailValid }

// ValidateEmail classifies email. A nil pointer stands for an absent address.
func ValidateEmail(email *string) EmailStatus {
	if email == nil || *email == "" {
		return EmailInvalidEmpty
	}
	if strings.Contains(*email, "@") {
		return EmailValid
	}
	return EmailInvalidNoAtSign
}

// ReportEmail writes the verdict for email and returns the classification.
func ReportEmail(w io.Writer, email *string) (EmailStatus, error) {
	status := ValidateEmail(email)
	_, err := fmt.Fprintln(w, status.String())
	return status, err
}
