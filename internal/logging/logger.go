// Package logging provides config-driven categorized logging for debugkit.
// A single zap logger is built from config.LoggingConfig; each subsystem asks
// for a named child via Get. Disabled categories receive a no-op logger.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"debugkit/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategoryDebugging Category = "debugging" // Sum, divide, email demos
	CategoryPipeline  Category = "pipeline"  // Data processing orchestrator
	CategoryValidate  Category = "validate"  // Validators and formatters
	CategoryRateLimit Category = "ratelimit" // Login attempt limiting
	CategoryUsers     Category = "users"     // User service
	CategoryStore     Category = "store"     // SQLite / Redis access
	CategoryMetrics   Category = "metrics"   // Prometheus collection
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
	cfg  config.LoggingConfig
)

// New builds a zap logger from cfg without installing it.
func New(c config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.DebugMode {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if c.Level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(c.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		level = parsed
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	switch c.Format {
	case "", "json":
		zc.Encoding = "json"
	case "console", "text":
		zc.Encoding = "console"
	default:
		return nil, fmt.Errorf("unsupported log format %q", c.Format)
	}

	zc.OutputPaths = []string{"stderr"}
	if c.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, c.File)
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

// Initialize builds the base logger from c and installs it.
func Initialize(c config.LoggingConfig) error {
	l, err := New(c)
	if err != nil {
		return err
	}
	Install(l, c)
	l.Named(string(CategoryBoot)).Debug("logging initialized",
		zap.String("level", c.Level),
		zap.String("format", c.Format),
		zap.Bool("debug_mode", c.DebugMode))
	return nil
}

// Install replaces the base logger. Tests use it with zaptest or observer cores.
func Install(l *zap.Logger, c config.LoggingConfig) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	base = l
	cfg = c
	mu.Unlock()
}

// Reset restores the no-op logger.
func Reset() {
	Install(zap.NewNop(), config.LoggingConfig{})
}

// Base returns the installed root logger.
func Base() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	return cfg.IsCategoryEnabled(string(category))
}

// Get returns a logger named after the category.
// Returns a no-op logger if the category is disabled.
func Get(category Category) *zap.Logger {
	if !IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	return Base().Named(string(category))
}

// Sync flushes buffered entries of the base logger.
func Sync() error {
	return Base().Sync()
}

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("operation completed",
		zap.String("op", t.op),
		zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("operation slow",
			zap.String("op", t.op),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold))
	} else {
		Get(t.category).Debug("operation completed",
			zap.String("op", t.op),
			zap.Duration("elapsed", elapsed))
	}
	return elapsed
}
