// visitctl is the operator CLI: migrations, manual hold sweeps, and
// scripted route reschedules against a running server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "visitctl",
		Short:         "Operate a visitdesk deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "server base URL")
	root.PersistentFlags().StringVar(&accessToken, "token", "", "access token for authenticated calls")

	root.AddCommand(
		newMigrateCmd(),
		newSweepCmd(),
		newPreviewCmd(),
		newConfirmCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
