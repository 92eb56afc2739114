package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/habitkit/cmd/habitctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "habitctl",
		Short:         "Operational tools for habitkit",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.UserCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
