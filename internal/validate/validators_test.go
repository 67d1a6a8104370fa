package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"john@gmail.com", "a.b@c.io", "x+tag@sub.domain.org"}
	invalid := []string{"", "john.gmail.com", "john@gmail", "jo hn@gmail.com", "@gmail.com", "john@.com@x"}

	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := map[string]bool{
		"Secur3!pw": true,
		"Ab1!":      false, // too short
		"secur3!pw": false, // no uppercase
		"Secure!pw": false, // no digit
		"Secur3pw1": false, // no special
		"ABCDEFG1#": true,
	}
	for pw, want := range tests {
		assert.Equal(t, want, IsStrongPassword(pw), pw)
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("bob_99"))
	assert.False(t, IsValidUsername("bo"))
	assert.False(t, IsValidUsername("bob smith"))
	assert.False(t, IsValidUsername("bob-smith"))
}

func TestIsValidPhoneNumber(t *testing.T) {
	assert.True(t, IsValidPhoneNumber("(555) 123-4567"))
	assert.True(t, IsValidPhoneNumber("5551234567"))
	assert.False(t, IsValidPhoneNumber("555-1234"))
	assert.False(t, IsValidPhoneNumber("+1 555 123 4567"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, IsValidName("Ada Lovelace"))
	assert.False(t, IsValidName("A"))
	assert.False(t, IsValidName("R2D2"))
}

func TestCheckEmail(t *testing.T) {
	tests := []struct {
		in   string
		want EmailCheck
	}{
		{"john@gmail.com", EmailCheck{Valid: true}},
		{"  john@gmail.com  ", EmailCheck{Valid: true}},
		{"john.gmail.com", EmailCheck{Error: MsgMissingAt}},
		{"john@localhost", EmailCheck{Error: MsgMissingTLD}},
		{"john@gmial.com", EmailCheck{Valid: true, Corrected: "john@gmail.com"}},
		{"jane@yahooo.com", EmailCheck{Valid: true, Corrected: "jane@yahoo.com"}},
		{"max@hotmial.com", EmailCheck{Valid: true, Corrected: "max@hotmail.com"}},
		{"max@gmai.com", EmailCheck{Valid: true, Corrected: "max@gmail.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, CheckEmail(tt.in)); diff != "" {
				t.Errorf("CheckEmail(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
