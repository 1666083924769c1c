package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"service-watchdog/internal/watchdog"
	"service-watchdog/internal/watchdog/api/handler"
	"service-watchdog/internal/watchdog/api/routes"
	"service-watchdog/pkg/infra"
	"service-watchdog/pkg/logger"
	"service-watchdog/pkg/mail"
)

func newStartCmd(envFile *string) *cobra.Command {
	var detach bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the watchdog daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if detach {
				return detachDaemon(*envFile, cmd)
			}
			return runDaemon(*envFile)
		},
	}
	cmd.Flags().BoolVar(&detach, "detach", false, "run the daemon in the background")
	return cmd
}

// detachDaemon re-executes "watchdog start" in its own session so the
// daemon survives the invoking terminal.
func detachDaemon(envFile string, cmd *cobra.Command) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable: %w", err)
	}
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	child := exec.Command(exe, "start", "--env-file", envFile)
	child.Stdin = devNull
	child.Stdout = devNull
	child.Stderr = devNull
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := child.Start(); err != nil {
		return fmt.Errorf("failed to start detached daemon: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "watchdog started (pid %d)\n", child.Process.Pid)
	return nil
}

func runDaemon(envFile string) error {
	cfg, err := watchdog.LoadConfig(envFile)
	if err != nil {
		return fmt.Errorf("load config error: %w", err)
	}

	fileSyncer, err := logger.NewReopenableFile(cfg.Daemon.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	zapLogger := logger.NewLogger(cfg.Daemon.LogLevel, fileSyncer).With(zap.String("service.name", "watchdog"))
	defer zapLogger.Sync()
	stopReopen := fileSyncer.ReopenOnSIGHUP()
	defer stopReopen()

	lock := watchdog.NewInstanceLock(cfg.Daemon.LockFile)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	prober := watchdog.NewHTTPProber(cfg.Target)
	controller, err := watchdog.NewExecController(cfg.Monitor.RecreateCommand, cfg.Monitor.RecreateTimeout, zapLogger)
	if err != nil {
		return err
	}
	notifier := buildNotifier(cfg.Notify, zapLogger)
	publisher, closePublisher := buildPublisher(cfg.Kafka, zapLogger)
	defer closePublisher()

	supervisor := watchdog.NewSupervisor(cfg, prober, controller, notifier, publisher, zapLogger)

	adminHandler := handler.NewWatchdogHandler(supervisor, zapLogger)
	adminSrv := &http.Server{
		Addr:    cfg.Daemon.AdminAddr,
		Handler: routes.NewRouter(adminHandler),
	}
	go func() {
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("admin api stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := supervisor.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("admin api shutdown failed", zap.Error(err))
	}
	zapLogger.Info("watchdog exiting")
	return runErr
}

func buildNotifier(cfg watchdog.NotifyConfig, zapLogger *zap.Logger) watchdog.Notifier {
	var sinks []watchdog.Notifier
	if cfg.WebhookURL != "" {
		sinks = append(sinks, watchdog.NewWebhookNotifier(cfg.WebhookURL, cfg.NotifyTimeout, zapLogger))
	}
	if cfg.SMTPHost != "" && len(cfg.SMTPTo) > 0 {
		sender := mail.NewAlertSender(cfg.SMTPEmail, cfg.SMTPPassword, cfg.SMTPHost, cfg.SMTPPort)
		sinks = append(sinks, watchdog.NewMailNotifier(sender, cfg.SMTPTo, zapLogger))
	}
	switch len(sinks) {
	case 0:
		zapLogger.Warn("no notification sink configured, state changes are log-only")
		return watchdog.NewNopNotifier()
	case 1:
		return sinks[0]
	default:
		return watchdog.NewMultiNotifier(sinks...)
	}
}

func buildPublisher(cfg watchdog.KafkaConfig, zapLogger *zap.Logger) (watchdog.ResultPublisher, func()) {
	if len(cfg.Brokers) == 0 {
		return watchdog.NewNopPublisher(), func() {}
	}
	writer := infra.NewKafkaWriter(cfg.Brokers, cfg.Topic)
	return watchdog.NewKafkaPublisher(writer, zapLogger), func() {
		if err := writer.Close(); err != nil {
			zapLogger.Warn("failed to close kafka writer", zap.Error(err))
		}
	}
}
