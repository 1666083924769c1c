package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"service-watchdog/internal/watchdog"
	apperrors "service-watchdog/internal/watchdog/errors"
)

func newTestRecoveryCmd(envFile *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "test-recovery",
		Short: "Manually run the recovery path against the monitored service",
		Long:  "Forces a recreation of the monitored service through the running\ndaemon, sharing its cooldown accounting. This is destructive and\nrequires --yes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("%w: re-run with --yes", apperrors.ErrConfirmationRequired)
			}
			cfg, err := watchdog.LoadConfig(*envFile)
			if err != nil {
				return fmt.Errorf("load config error: %w", err)
			}

			lock := watchdog.NewInstanceLock(cfg.Daemon.LockFile)
			if held, err := lock.Held(); err == nil && !held {
				return apperrors.ErrNotRunning
			}

			// Recreation plus the confirmation window can take minutes.
			timeout := cfg.Monitor.RecreateTimeout + cfg.Monitor.ConfirmWindow + 30*time.Second
			client := newAdminClient(cfg.Daemon.AdminAddr, timeout)

			fmt.Fprintf(cmd.OutOrStdout(), "triggering recovery of %s...\n", cfg.Monitor.ServiceName)
			res, err := client.TestRecovery(cmd.Context(), cfg.Monitor.ServiceName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "outcome: %s (took %s)\n",
				res.Outcome, (time.Duration(res.DurationMs) * time.Millisecond).Round(time.Millisecond))
			if res.Outcome != watchdog.RecoverySucceeded {
				return &ExitError{Code: 1, Msg: fmt.Sprintf("recovery outcome: %s", res.Outcome)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive recovery action")
	return cmd
}
