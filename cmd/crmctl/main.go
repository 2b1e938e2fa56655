// Command crmctl is the operator CLI for the lead store. It prints a status
// report, runs the workflow once from a JSON file, and previews the follow-up
// email for a stored lead. It reads the same configuration as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/concierge/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Operate the concierge lead store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", config.BaseConfigFile, "path to config.toml")
	root.PersistentFlags().Bool("verbose", false, "log subsystem output to stderr")

	root.AddCommand(newStatusCmd(), newRunCmd(), newFollowUpCmd())
	return root
}
