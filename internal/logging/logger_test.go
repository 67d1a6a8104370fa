package logging

import (
	"path/filepath"
	"testing"
	"time"

	"debugkit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	l, err := New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(config.LoggingConfig{Level: "DEBUG", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "shout"})
	assert.Error(t, err)

	_, err = New(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debugkit.log")
	l, err := New(config.LoggingConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()
	assert.FileExists(t, path)
}

func TestGet_NamesAndCategories(t *testing.T) {
	t.Cleanup(Reset)

	core, logs := observer.New(zapcore.DebugLevel)
	Install(zap.New(core), config.LoggingConfig{
		Categories: map[string]bool{string(CategoryStore): false},
	})

	Get(CategoryPipeline).Info("pipeline message")
	Get(CategoryStore).Info("store message")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "pipeline", entries[0].LoggerName)
	assert.Equal(t, "pipeline message", entries[0].Message)
	assert.False(t, IsCategoryEnabled(CategoryStore))
	assert.True(t, IsCategoryEnabled(CategoryUsers))
}

func TestInstallNilFallsBackToNop(t *testing.T) {
	t.Cleanup(Reset)
	Install(nil, config.LoggingConfig{})
	assert.NotNil(t, Base())
	assert.NotPanics(t, func() { Get(CategoryBoot).Info("dropped") })
}

func TestTimer(t *testing.T) {
	t.Cleanup(Reset)

	core, logs := observer.New(zapcore.DebugLevel)
	Install(zap.New(core), config.LoggingConfig{})

	timer := StartTimer(CategoryPipeline, "sum")
	assert.GreaterOrEqual(t, timer.Stop(), time.Duration(0))

	slow := StartTimer(CategoryPipeline, "divide")
	slow.start = time.Now().Add(-time.Second)
	slow.StopWithThreshold(time.Millisecond)

	require.Len(t, logs.All(), 2)
	assert.Equal(t, zapcore.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, "divide", logs.All()[1].ContextMap()["op"])
}
