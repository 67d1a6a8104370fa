package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"debugkit/internal/apierr"
	"debugkit/internal/logging"
	"debugkit/internal/ratelimit"
	"debugkit/internal/shipping"
	"debugkit/internal/users"
	"debugkit/internal/validate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	demoAttempts int
	demoID       string

	userEmail    string
	userName     string
	userPassword string
	userPhone    string
)

var shippingCmd = &cobra.Command{
	Use:   "shipping [weight] [distance]",
	Short: "Price a parcel by weight (lb) and distance (mi)",
	Args:  cobra.ExactArgs(2),
	RunE:  runShipping,
}

var checkEmailCmd = &cobra.Command{
	Use:   "check-email [address]",
	Short: "Explain whether an email address is acceptable",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckEmail,
}

var rateLimitDemoCmd = &cobra.Command{
	Use:   "ratelimit-demo",
	Short: "Replay failed logins against an in-memory limiter",
	Long: `Records a series of failed login attempts for one identifier against an
in-memory limiter allowing 5 attempts, prints the verdict for each, then the
limiter statistics, then resets the identifier.`,
	Args: cobra.NoArgs,
	RunE: runRateLimitDemo,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a user in the local user database",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check credentials, throttled by the configured rate limiter",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var validateProfileCmd = &cobra.Command{
	Use:   "validate-profile",
	Short: "Validate profile fields without storing anything",
	Args:  cobra.NoArgs,
	RunE:  runValidateProfile,
}

func init() {
	rateLimitDemoCmd.Flags().IntVar(&demoAttempts, "attempts", 7, "Number of failed attempts to record")
	rateLimitDemoCmd.Flags().StringVar(&demoID, "id", "user@example.com", "Identifier to throttle")

	registerCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	registerCmd.Flags().StringVar(&userName, "name", "", "Full name (required)")
	registerCmd.Flags().StringVar(&userPassword, "password", "", "Password (required)")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	loginCmd.Flags().StringVar(&userPassword, "password", "", "Password (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	validateProfileCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	validateProfileCmd.Flags().StringVar(&userName, "name", "", "Full name")
	validateProfileCmd.Flags().StringVar(&userPhone, "phone", "", "Phone number")
}

func runShipping(cmd *cobra.Command, args []string) error {
	weight, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid weight %q: %w", args[0], err)
	}
	distance, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid distance %q: %w", args[1], err)
	}

	cost, err := shipping.Calculate(weight, distance)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Shipping cost: $%.2f\n", cost)
	return nil
}

func runCheckEmail(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	res := validate.CheckEmail(args[0])
	switch {
	case !res.Valid:
		fmt.Fprintf(out, "Invalid: %s\n", res.Error)
	case res.Corrected != "":
		fmt.Fprintf(out, "Valid (did you mean %s?)\n", res.Corrected)
	default:
		fmt.Fprintln(out, "Valid")
	}
	return nil
}

func runRateLimitDemo(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	limiter, err := ratelimit.NewMemory(ratelimit.Config{
		MaxAttempts:   5,
		Window:        cfg.RateLimit.GetWindow(),
		BlockDuration: cfg.RateLimit.GetBlockDuration(),
	}, ratelimit.WithLogger(logging.Get(logging.CategoryRateLimit)))
	if err != nil {
		return err
	}

	for i := 1; i <= demoAttempts; i++ {
		res, err := limiter.Record(ctx, demoID)
		if err != nil {
			return err
		}
		if res.Allowed {
			fmt.Fprintf(out, "Attempt %d: allowed, %d remaining\n", i, res.Remaining)
		} else {
			fmt.Fprintf(out, "Attempt %d: blocked, retry after %s\n", i, res.RetryAfter.Round(time.Second))
		}
	}

	stats, err := limiter.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Tracked: %d, Blocked: %d\n", stats.Tracked, stats.Blocked)

	if err := limiter.Reset(ctx, demoID); err != nil {
		return err
	}
	limited, err := limiter.IsLimited(ctx, demoID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "After reset: limited=%t\n", limited)
	return nil
}

// openUserService opens the configured database. The returned function
// releases the database and the limiter backend.
func openUserService(ctx context.Context, withLimiter bool) (*users.Service, func(), error) {
	log := logging.Get(logging.CategoryUsers)

	store, err := users.OpenSQLite(cfg.Users.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	logging.Get(logging.CategoryStore).Debug("user store opened", zap.String("path", store.Path()))

	opts := []users.ServiceOption{users.WithLogger(log)}
	closeLimiter := func() error { return nil }
	if withLimiter {
		limiter, closeFn, err := ratelimit.NewFromConfig(ctx, cfg.RateLimit, logging.Get(logging.CategoryRateLimit))
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		closeLimiter = closeFn
		opts = append(opts, users.WithLimiter(limiter))
	}

	cleanup := func() {
		if err := closeLimiter(); err != nil {
			log.Warn("failed to close rate limiter", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			log.Warn("failed to close user store", zap.Error(err))
		}
	}
	return users.NewService(store, opts...), cleanup, nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	svc, cleanup, err := openUserService(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	timer := logging.StartTimer(logging.CategoryUsers, "register")
	res, err := svc.Register(ctx, users.Registration{Email: userEmail, Name: userName, Password: userPassword})
	if err != nil {
		apierr.Log(logging.Get(logging.CategoryUsers), "registration failed", err)
		return err
	}
	timer.StopWithThreshold(time.Second)
	if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New("registration rejected")
	}
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	svc, cleanup, err := openUserService(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	u, err := svc.Authenticate(ctx, userEmail, userPassword)
	switch {
	case err == nil:
		return writeJSON(cmd.OutOrStdout(), u)
	case errors.Is(err, users.ErrRateLimited):
		_ = writeJSON(cmd.OutOrStdout(), apierr.FromError("TOO_MANY_ATTEMPTS", 403, err))
	case errors.Is(err, users.ErrInvalidCredentials):
		_ = writeJSON(cmd.OutOrStdout(), apierr.FromError("INVALID_CREDENTIALS", 401, err))
	default:
		apierr.Log(logging.Get(logging.CategoryUsers), "login failed", err)
		_ = writeJSON(cmd.OutOrStdout(), apierr.FromError("INTERNAL", 500, nil))
	}
	return err
}

func runValidateProfile(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	res := users.NewService(nil).ValidateProfile(users.Profile{Email: userEmail, Name: userName, Phone: userPhone})
	if res.Valid {
		fmt.Fprintln(out, "Profile is valid")
		return nil
	}
	fmt.Fprintln(out, "Profile is invalid:")
	for _, msg := range res.Errors {
		fmt.Fprintf(out, "  - %s\n", msg)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
