package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries a specific process exit code to main.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "watchdog",
		Short:         "Health-monitoring watchdog with automatic recovery",
		Long:          "watchdog probes a service's health endpoint on a fixed interval,\ndistinguishes transient from persistent failure, and performs bounded,\nrate-limited service recreation when the failure persists.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "./.env", "path to an optional .env file")

	root.AddCommand(
		newStartCmd(&envFile),
		newStopCmd(&envFile),
		newRestartCmd(&envFile),
		newStatusCmd(&envFile),
		newCheckCmd(&envFile),
		newTestRecoveryCmd(&envFile),
	)
	return root
}

func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}
