package main

import (
	"context"
	"fmt"
	"os"

	"order-dashboard/internal/services"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo members and shipping addresses; safe to run repeatedly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fixtures *services.Fixtures
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read fixtures: %w", err)
				}
				if fixtures, err = services.ParseFixtures(data); err != nil {
					return err
				}
			}

			return withServices(cmd, func(ctx context.Context, svc *services.ServiceContainer) error {
				result, err := svc.Seeder.Seed(ctx, fixtures)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "members created: %d, already present: %d, addresses created: %d\n",
					result.MembersCreated, result.MembersExisting, result.AddressesCreated)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixtures to load instead of the built-in demo data")
	return cmd
}
