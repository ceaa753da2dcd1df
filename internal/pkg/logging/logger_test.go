package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(Options{Service: "shopsmart", Env: "test", Level: "warn"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestNewLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger(Options{Service: "shopsmart", Env: "dev", File: path})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	assert.FileExists(t, path)
}
