package watchdog

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Target  TargetConfig
	Monitor MonitorConfig
	Notify  NotifyConfig
	Kafka   KafkaConfig
	Daemon  DaemonConfig
}

type TargetConfig struct {
	URL               string        `envconfig:"WATCHDOG_TARGET_URL" required:"true"`
	LocalURL          string        `envconfig:"WATCHDOG_LOCAL_URL"`
	HealthMarker      string        `envconfig:"WATCHDOG_HEALTH_MARKER" default:"ok"`
	ProbeTimeout      time.Duration `envconfig:"WATCHDOG_PROBE_TIMEOUT" default:"30s"`
	ConnectTimeout    time.Duration `envconfig:"WATCHDOG_CONNECT_TIMEOUT" default:"10s"`
	LocalProbeTimeout time.Duration `envconfig:"WATCHDOG_LOCAL_PROBE_TIMEOUT" default:"5s"`
}

type MonitorConfig struct {
	ServiceName         string        `envconfig:"WATCHDOG_SERVICE_NAME" required:"true"`
	CheckInterval       time.Duration `envconfig:"WATCHDOG_CHECK_INTERVAL" default:"300s"`
	FailureThreshold    int           `envconfig:"WATCHDOG_FAILURE_THRESHOLD" default:"2"`
	RecoveryCooldown    time.Duration `envconfig:"WATCHDOG_RECOVERY_COOLDOWN" default:"10m"`
	ConfirmWindow       time.Duration `envconfig:"WATCHDOG_CONFIRM_WINDOW" default:"120s"`
	ConfirmPollInterval time.Duration `envconfig:"WATCHDOG_CONFIRM_POLL_INTERVAL" default:"10s"`
	RecreateCommand     string        `envconfig:"WATCHDOG_RECREATE_COMMAND" default:"docker compose up -d --force-recreate"`
	RecreateTimeout     time.Duration `envconfig:"WATCHDOG_RECREATE_TIMEOUT" default:"120s"`
}

type NotifyConfig struct {
	WebhookURL    string        `envconfig:"WATCHDOG_NOTIFY_WEBHOOK_URL"`
	NotifyTimeout time.Duration `envconfig:"WATCHDOG_NOTIFY_TIMEOUT" default:"10s"`
	SMTPHost      string        `envconfig:"WATCHDOG_SMTP_HOST"`
	SMTPPort      int           `envconfig:"WATCHDOG_SMTP_PORT" default:"587"`
	SMTPEmail     string        `envconfig:"WATCHDOG_SMTP_EMAIL"`
	SMTPPassword  string        `envconfig:"WATCHDOG_SMTP_PASSWORD"`
	SMTPTo        []string      `envconfig:"WATCHDOG_SMTP_TO"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"WATCHDOG_KAFKA_BROKERS"`
	Topic   string   `envconfig:"WATCHDOG_KAFKA_TOPIC" default:"watchdog-health-checks"`
}

type DaemonConfig struct {
	AdminAddr string `envconfig:"WATCHDOG_ADMIN_ADDR" default:"127.0.0.1:8430"`
	LockFile  string `envconfig:"WATCHDOG_LOCK_FILE" default:"/tmp/watchdog.lock"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile   string `envconfig:"WATCHDOG_LOG_FILE" default:"./log/watchdog.log"`
}

func LoadConfig(path string) (AppConfig, error) {
	_ = godotenv.Load(path)

	var cfg AppConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}
