package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shopdesk/config"
	"github.com/shashiranjanraj/shopdesk/database/seeders"
	"github.com/shashiranjanraj/shopdesk/internal/server"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
	"github.com/shashiranjanraj/shopdesk/pkg/event"
	"github.com/shashiranjanraj/shopdesk/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		ran, err := migration.New(database.DB).Run()
		for _, name := range ran {
			fmt.Println("  migrated:", name)
		}
		if err == nil && len(ran) == 0 {
			fmt.Println("  nothing to migrate")
		}
		return err
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		undone, err := migration.New(database.DB).Rollback()
		for _, name := range undone {
			fmt.Println("  rolled back:", name)
		}
		return err
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		status, err := migration.New(database.DB).Status()
		if err != nil {
			return err
		}
		for _, s := range status {
			mark := "pending"
			if s.Ran {
				mark = fmt.Sprintf("ran (batch %d)", s.Batch)
			}
			fmt.Printf("  %-60s %s\n", s.Name, mark)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:       "seed [name...]",
	Short:     "Run database seeders (all when no name is given)",
	ValidArgs: seeders.Names(),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		if err := seeders.Run(database.DB, args...); err != nil {
			return err
		}
		fmt.Printf("All passwords: %s\n", seeders.DemoPassword)
		return nil
	},
}

var tokensPruneCmd = &cobra.Command{
	Use:   "tokens:prune",
	Short: "Delete expired access tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		ctx := context.Background()
		svc, err := server.Boot(ctx, nil, event.NewBus())
		if err != nil {
			return err
		}
		n, err := svc.Auth.PruneExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Pruned %d expired tokens\n", n)
		return nil
	},
}
