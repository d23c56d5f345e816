package main

import (
	"os"

	"github.com/spf13/cobra"

	"beatrush/internal/interfaces/cli/migrate"
	"beatrush/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "beatrush",
		Short: "Beatrush - rhythm game backend",
		Long:  `Beatrush is the backend for a rhythm game: song catalog, gameplay sessions, purchases, and the entitlement ledger that decides who may play what.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
