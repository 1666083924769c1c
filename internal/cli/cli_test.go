package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "service-watchdog/internal/watchdog/errors"
)

func setCommonEnv(t *testing.T, targetURL string) {
	t.Helper()
	t.Setenv("WATCHDOG_TARGET_URL", targetURL)
	t.Setenv("WATCHDOG_SERVICE_NAME", "app")
	t.Setenv("WATCHDOG_LOCAL_URL", "")
	t.Setenv("WATCHDOG_PROBE_TIMEOUT", "2s")
	t.Setenv("WATCHDOG_CONNECT_TIMEOUT", "1s")
	t.Setenv("WATCHDOG_LOCK_FILE", filepath.Join(t.TempDir(), "watchdog.lock"))
	t.Setenv("WATCHDOG_ADMIN_ADDR", "127.0.0.1:1")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCmd(t *testing.T) {
	t.Run("healthy endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		}))
		defer srv.Close()
		setCommonEnv(t, srv.URL)

		out, err := execute(t, "check")
		require.NoError(t, err)
		assert.Contains(t, out, "healthy")
	})

	t.Run("unhealthy endpoint exits non-zero", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusGatewayTimeout)
		}))
		defer srv.Close()
		setCommonEnv(t, srv.URL)

		out, err := execute(t, "check")
		require.Error(t, err)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Contains(t, out, "gateway_timeout")
	})
}

func TestTestRecoveryCmd_RequiresConfirmation(t *testing.T) {
	setCommonEnv(t, "http://127.0.0.1:1/healthz")

	_, err := execute(t, "test-recovery")
	assert.ErrorIs(t, err, apperrors.ErrConfirmationRequired)
}

func TestStatusCmd_DaemonNotRunning(t *testing.T) {
	setCommonEnv(t, "http://127.0.0.1:1/healthz")

	_, err := execute(t, "status")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestStopCmd_DaemonNotRunning(t *testing.T) {
	setCommonEnv(t, "http://127.0.0.1:1/healthz")

	_, err := execute(t, "stop")
	assert.ErrorIs(t, err, apperrors.ErrNotRunning)
}
