package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"debugkit/internal/format"
	"debugkit/internal/ratelimit"
	"debugkit/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Field error messages returned by Register.
const (
	MsgInvalidEmail = "Invalid email format"
	MsgEmailTaken   = "Email already registered"
	MsgInvalidName  = "Name must be at least 2 letters and contain only letters and spaces"
	MsgWeakPassword = "Password must be at least 8 characters with an uppercase letter, a digit and one of !@#$%^&*"
	MsgInvalidPhone = "Phone number must have 10 digits"
)

// maxParallelLookups bounds the store queries GetUsers runs at once.
const maxParallelLookups = 8

// Service implements the user workflows on top of a Store.
type Service struct {
	store   Store
	limiter ratelimit.Limiter
	hasher  *Hasher
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	// verified against for unknown emails so they cost as much as known ones
	dummyOnce sync.Once
	dummyHash string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLimiter throttles Authenticate per email address.
func WithLimiter(l ratelimit.Limiter) ServiceOption {
	return func(s *Service) { s.limiter = l }
}

// WithHasher replaces the default argon2id parameters.
func WithHasher(h *Hasher) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a user service.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		hasher: NewHasher(DefaultHashParams),
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the input, then stores a new user with a hashed password.
// Validation problems are returned in the result; the error is reserved for
// storage failures.
func (s *Service) Register(ctx context.Context, req Registration) (RegistrationResult, error) {
	email := format.Email(req.Email)
	name := normalizeName(req.Name)

	errs := make(map[string]string)
	if !validate.IsValidEmail(email) {
		errs["email"] = MsgInvalidEmail
	}
	if !validate.IsValidName(name) {
		errs["name"] = MsgInvalidName
	}
	if !validate.IsStrongPassword(req.Password) {
		errs["password"] = MsgWeakPassword
	}
	if len(errs) > 0 {
		return RegistrationResult{Success: false, Errors: errs}, nil
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return RegistrationResult{Errors: map[string]string{"email": MsgEmailTaken}}, nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return RegistrationResult{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegistrationResult{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	u := &User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Insert(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return RegistrationResult{Errors: map[string]string{"email": MsgEmailTaken}}, nil
		}
		return RegistrationResult{}, err
	}

	s.logger.Info("user registered", zap.String("id", u.ID), zap.String("email", u.Email))
	return RegistrationResult{Success: true, UserID: u.ID}, nil
}

// ValidateProfile reports every invalid field of p.
func (s *Service) ValidateProfile(p Profile) ProfileResult {
	var errs []string
	if !validate.IsValidEmail(format.Email(p.Email)) {
		errs = append(errs, MsgInvalidEmail)
	}
	if !validate.IsValidName(format.CleanWhitespace(p.Name)) {
		errs = append(errs, MsgInvalidName)
	}
	if !validate.IsValidPhoneNumber(p.Phone) {
		errs = append(errs, MsgInvalidPhone)
	}
	return ProfileResult{Valid: len(errs) == 0, Errors: errs}
}

// Authenticate checks credentials. Failed attempts count against the email
// address; a successful login clears them.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = format.Email(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	if s.limiter != nil {
		limited, err := s.limiter.IsLimited(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check rate limit: %w", err)
		}
		if limited {
			s.logger.Warn("login rate limited", zap.String("email", email))
			return nil, ErrRateLimited
		}
	}

	u, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	ok := false
	if u != nil {
		ok, err = s.hasher.Verify(password, u.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("verify password for %s: %w", u.ID, err)
		}
	} else if dummy := s.unknownUserHash(); dummy != "" {
		_, _ = s.hasher.Verify(password, dummy)
	}

	if !ok {
		if s.limiter != nil {
			if _, err := s.limiter.Record(ctx, email); err != nil {
				return nil, fmt.Errorf("record attempt: %w", err)
			}
		}
		return nil, ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn("failed to reset rate limit", zap.String("email", email), zap.Error(err))
		}
	}
	return u, nil
}

// unknownUserHash returns a hash with the hasher's own parameters.
func (s *Service) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("unknown-user-placeholder")
		if err != nil {
			s.logger.Warn("failed to prepare placeholder hash", zap.Error(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// GetUser loads one user.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidUserID
	}
	return s.store.Find(ctx, id)
}

// GetUsers loads users concurrently, preserving the order of ids. Any
// failure fails the whole call.
func (s *Service) GetUsers(ctx context.Context, ids []string) ([]*User, error) {
	out := make([]*User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			u, err := s.GetUser(gctx, id)
			if err != nil {
				return fmt.Errorf("user %q: %w", id, err)
			}
			out[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUser applies the non-nil fields of upd.
func (s *Service) UpdateUser(ctx context.Context, id string, upd Update) (*User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := normalizeName(*upd.Name)
		if !validate.IsValidName(name) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, MsgInvalidName)
		}
		u.Name = name
	}
	if upd.Email != nil {
		email := format.Email(*upd.Email)
		if !validate.IsValidEmail(email) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, MsgInvalidEmail)
		}
		u.Email = email
	}
	u.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidUserID
	}
	return s.store.Delete(ctx, id)
}

// ResetPassword replaces the password after checking the current one.
func (s *Service) ResetPassword(ctx context.Context, id, current, next string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(current, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password for %s: %w", id, err)
	}
	if !ok {
		return ErrInvalidCredentials
	}
	if !validate.IsStrongPassword(next) {
		return ErrWeakPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	u.UpdatedAt = s.now().UTC()
	return s.store.Update(ctx, u)
}

// normalizeName collapses whitespace and capitalizes each word.
func normalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = format.Capitalize(w)
	}
	return strings.Join(words, " ")
}
