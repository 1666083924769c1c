package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewReopenableFile(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("creates file and parent directory", func(t *testing.T) {
		logFilePath := filepath.Join(tempDir, "log", "watchdog.log")
		f, err := NewReopenableFile(logFilePath)
		require.NoError(t, err)
		defer f.Close()

		_, err = os.Stat(logFilePath)
		assert.NoError(t, err)
	})

	t.Run("path is a directory", func(t *testing.T) {
		f, err := NewReopenableFile(tempDir)
		assert.Error(t, err)
		assert.Nil(t, f)
	})
}

func TestReopenableFile_WriteAndReopen(t *testing.T) {
	tempDir := t.TempDir()
	logFilePath := filepath.Join(tempDir, "watchdog.log")
	rotatedPath := filepath.Join(tempDir, "watchdog.log.1")

	f, err := NewReopenableFile(logFilePath)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("before rotate\n"))
	require.NoError(t, err)

	require.NoError(t, os.Rename(logFilePath, rotatedPath))
	require.NoError(t, f.Reopen())

	_, err = f.Write([]byte("after rotate\n"))
	require.NoError(t, err)
	f.Sync()

	rotated, err := os.ReadFile(rotatedPath)
	require.NoError(t, err)
	assert.Equal(t, "before rotate\n", string(rotated))

	current, err := os.ReadFile(logFilePath)
	require.NoError(t, err)
	assert.Equal(t, "after rotate\n", string(current))
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name          string
		logLevel      string
		expectedLevel zapcore.Level
	}{
		{"debug level", "debug", zap.DebugLevel},
		{"info level", "info", zap.InfoLevel},
		{"warn level", "warn", zap.WarnLevel},
		{"error level", "error", zap.ErrorLevel},
		{"fatal level", "fatal", zap.FatalLevel},
		{"invalid level", "invalid", zap.InfoLevel},
		{"empty level", "", zap.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedLevel, ParseLevel(tc.logLevel))
		})
	}
}

func TestNewLogger(t *testing.T) {
	f, err := NewReopenableFile(filepath.Join(t.TempDir(), "watchdog.log"))
	require.NoError(t, err)
	defer f.Close()

	logger := NewLogger("warn", f)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
}
