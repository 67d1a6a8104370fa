// Package users manages user accounts: registration, profile validation,
// authentication with login throttling, and CRUD over a Store.
package users

import (
	"errors"
	"time"
)

var (
	ErrInvalidUserID      = errors.New("userId cannot be null or empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrWeakPassword       = errors.New("password does not meet strength requirements")
	ErrValidation         = errors.New("validation failed")
)

// User is a registered account. The password hash never leaves the process
// through JSON.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Registration is the input of Service.Register.
type Registration struct {
	Email    string
	Name     string
	Password string
}

// RegistrationResult reports either the new user ID or per-field errors.
type RegistrationResult struct {
	Success bool              `json:"success"`
	UserID  string            `json:"userId,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Profile is the input of Service.ValidateProfile.
type Profile struct {
	Email string
	Name  string
	Phone string
}

// ProfileResult lists every problem found in a profile.
type ProfileResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Update carries the fields to change; nil fields are left alone.
type Update struct {
	Name  *string
	Email *string
}
