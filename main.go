package main

import (
	"os"

	"github.com/mattsolo1/grove-core/cli"

	"github.com/mattsolo1/grove-guru/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"guru-sync",
		"Sync a Markdown tree into a Guru synced collection",
	)

	rootCmd.AddCommand(cmd.NewSyncCmd())
	rootCmd.AddCommand(cmd.NewPlanCmd())
	rootCmd.AddCommand(cmd.NewHistoryCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
