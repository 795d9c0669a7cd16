package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations register themselves from init().
	_ "github.com/shashiranjanraj/shopdesk/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shopdesk",
	Short:         "shopdesk: multi-tenant point of sale backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(tokensPruneCmd)
}
