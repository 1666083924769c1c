package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("WATCHDOG_TARGET_URL", "https://app.example.com/healthz")
	t.Setenv("WATCHDOG_SERVICE_NAME", "app")

	cfg, err := LoadConfig("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "https://app.example.com/healthz", cfg.Target.URL)
	assert.Equal(t, "app", cfg.Monitor.ServiceName)
	assert.Equal(t, "ok", cfg.Target.HealthMarker)
	assert.Equal(t, 300*time.Second, cfg.Monitor.CheckInterval)
	assert.Equal(t, 30*time.Second, cfg.Target.ProbeTimeout)
	assert.Equal(t, 10*time.Second, cfg.Target.ConnectTimeout)
	assert.Equal(t, 5*time.Second, cfg.Target.LocalProbeTimeout)
	assert.Equal(t, 2, cfg.Monitor.FailureThreshold)
	assert.Equal(t, 10*time.Minute, cfg.Monitor.RecoveryCooldown)
	assert.Equal(t, 120*time.Second, cfg.Monitor.ConfirmWindow)
	assert.Equal(t, 10*time.Second, cfg.Monitor.ConfirmPollInterval)
	assert.Equal(t, "docker compose up -d --force-recreate", cfg.Monitor.RecreateCommand)
	assert.Equal(t, "127.0.0.1:8430", cfg.Daemon.AdminAddr)
	assert.Equal(t, "/tmp/watchdog.lock", cfg.Daemon.LockFile)
	assert.Equal(t, "info", cfg.Daemon.LogLevel)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Notify.WebhookURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("WATCHDOG_TARGET_URL", "https://app.example.com/healthz")
	t.Setenv("WATCHDOG_SERVICE_NAME", "app")
	t.Setenv("WATCHDOG_CHECK_INTERVAL", "30s")
	t.Setenv("WATCHDOG_FAILURE_THRESHOLD", "3")
	t.Setenv("WATCHDOG_RECOVERY_COOLDOWN", "5m")
	t.Setenv("WATCHDOG_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")
	t.Setenv("WATCHDOG_SMTP_TO", "a@example.com,b@example.com")

	cfg, err := LoadConfig("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Monitor.CheckInterval)
	assert.Equal(t, 3, cfg.Monitor.FailureThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Monitor.RecoveryCooldown)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Notify.SMTPTo)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("WATCHDOG_TARGET_URL", "")
	t.Setenv("WATCHDOG_SERVICE_NAME", "")

	_, err := LoadConfig("testdata/does-not-exist.env")
	assert.Error(t, err)
}
