package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}

	run := func(action string) func(cmd *cobra.Command, args []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cm, err := openDatabase(ctx, cfg, logger, false)
			if err != nil {
				return err
			}
			defer cm.Close()

			mm := cm.GetMigrationManager()
			switch action {
			case "up":
				if err := mm.Up(ctx); err != nil {
					return err
				}
			case "down":
				if err := mm.Down(ctx); err != nil {
					return err
				}
			}

			info, err := mm.Status(ctx)
			if err != nil {
				return err
			}
			if !info.Applied {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", info.Version, info.Dirty)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", Args: cobra.NoArgs, RunE: run("up")},
		&cobra.Command{Use: "down", Short: "Roll back the latest migration", Args: cobra.NoArgs, RunE: run("down")},
		&cobra.Command{Use: "status", Short: "Show the applied schema version", Args: cobra.NoArgs, RunE: run("status")},
	)
	return cmd
}
