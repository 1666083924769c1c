package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"service-watchdog/internal/watchdog"
)

func newStatusCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report daemon state, counters, uptime and recent events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := watchdog.LoadConfig(*envFile)
			if err != nil {
				return fmt.Errorf("load config error: %w", err)
			}

			client := newAdminClient(cfg.Daemon.AdminAddr, 5*time.Second)
			snap, err := client.Status(cmd.Context())
			if err != nil {
				lock := watchdog.NewInstanceLock(cfg.Daemon.LockFile)
				if held, lockErr := lock.Held(); lockErr == nil && !held {
					return &ExitError{Code: 2, Msg: "watchdog is not running"}
				}
				return fmt.Errorf("daemon is running but the admin api is unreachable: %w", err)
			}

			printStatus(cmd, snap)
			switch snap.State {
			case watchdog.StateHealthy, watchdog.StateStarting:
				return nil
			default:
				return &ExitError{Code: 1, Msg: fmt.Sprintf("service %s is %s", snap.Service, snap.State)}
			}
		},
	}
}

func printStatus(cmd *cobra.Command, snap watchdog.StatusSnapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "service:              %s\n", snap.Service)
	fmt.Fprintf(out, "target:               %s\n", snap.TargetURL)
	fmt.Fprintf(out, "state:                %s\n", snap.State)
	fmt.Fprintf(out, "consecutive failures: %d\n", snap.ConsecutiveFailures)
	fmt.Fprintf(out, "total recoveries:     %d\n", snap.TotalRecoveries)
	if snap.LastRecovery != nil {
		fmt.Fprintf(out, "last recovery:        %s\n", snap.LastRecovery.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "uptime:               %s\n", (time.Duration(snap.UptimeSeconds) * time.Second).String())
	if snap.LastProbe != nil {
		fmt.Fprintf(out, "last probe:           %s", snap.LastProbe.Status)
		if snap.LastProbe.Reason != "" {
			fmt.Fprintf(out, " (%s)", snap.LastProbe.Reason)
		}
		fmt.Fprintf(out, " at %s\n", snap.LastProbe.Timestamp.Format(time.RFC3339))
	}
	if len(snap.RecentEvents) > 0 {
		fmt.Fprintln(out, "recent events:")
		for _, e := range snap.RecentEvents {
			fmt.Fprintf(out, "  %s [%s] %s: %s\n", e.Timestamp.Format(time.RFC3339), e.Severity, e.Title, e.Message)
		}
	}
}
