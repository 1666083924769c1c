package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"service-watchdog/internal/watchdog"
)

func newCheckCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single synchronous health probe",
		Long:  "Probes the monitored endpoint once, without a running daemon.\nThe exit code reflects health: 0 healthy, 1 otherwise.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := watchdog.LoadConfig(*envFile)
			if err != nil {
				return fmt.Errorf("load config error: %w", err)
			}

			prober := watchdog.NewHTTPProber(cfg.Target)
			res := prober.Check(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s", cfg.Target.URL, res.Status)
			if res.Reason != watchdog.ReasonNone {
				fmt.Fprintf(out, " (%s)", res.Reason)
			}
			if res.StatusCode != 0 {
				fmt.Fprintf(out, " http=%d", res.StatusCode)
			}
			fmt.Fprintf(out, " latency=%s\n", res.Latency)

			if cfg.Target.LocalURL != "" {
				local := prober.CheckLocal(cmd.Context())
				fmt.Fprintf(out, "%s: %s (direct)\n", cfg.Target.LocalURL, local.Status)
				if res.Healthy() && !local.Healthy() {
					// Primary healthy but direct check failing is not a
					// combination the recovery logic acts on; surface it
					// instead of ignoring it.
					fmt.Fprintln(out, "warning: direct check failing while the proxied check is healthy")
				}
			}

			if !res.Healthy() {
				return &ExitError{Code: 1, Msg: fmt.Sprintf("service is %s", res.Status)}
			}
			return nil
		},
	}
}
