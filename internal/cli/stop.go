package cli

import (
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"service-watchdog/internal/watchdog"
	apperrors "service-watchdog/internal/watchdog/errors"
)

const stopWait = 15 * time.Second

func newStopCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watchdog daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := watchdog.LoadConfig(*envFile)
			if err != nil {
				return fmt.Errorf("load config error: %w", err)
			}
			if err := stopDaemon(cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "watchdog stopped")
			return nil
		},
	}
}

// stopDaemon signals the running instance with SIGTERM and waits for the
// singleton lock to be released. The daemon finishes its current iteration
// before exiting, so the wait is generous.
func stopDaemon(cfg watchdog.AppConfig) error {
	lock := watchdog.NewInstanceLock(cfg.Daemon.LockFile)
	held, err := lock.Held()
	if err != nil {
		return err
	}
	if !held {
		return apperrors.ErrNotRunning
	}
	pid, err := lock.ReadPID()
	if err != nil {
		return fmt.Errorf("cannot determine daemon pid: %w", err)
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}

	deadline := time.Now().Add(stopWait)
	for time.Now().Before(deadline) {
		held, err := lock.Held()
		if err != nil {
			return err
		}
		if !held {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not release the lock within %s", pid, stopWait)
}

func newRestartCmd(envFile *string) *cobra.Command {
	var detach bool
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the watchdog daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := watchdog.LoadConfig(*envFile)
			if err != nil {
				return fmt.Errorf("load config error: %w", err)
			}
			if err := stopDaemon(cfg); err != nil && !errors.Is(err, apperrors.ErrNotRunning) {
				return err
			}
			if detach {
				return detachDaemon(*envFile, cmd)
			}
			return runDaemon(*envFile)
		},
	}
	cmd.Flags().BoolVar(&detach, "detach", false, "run the restarted daemon in the background")
	return cmd
}
