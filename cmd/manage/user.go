package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"order-dashboard/internal/services"

	"github.com/spf13/cobra"
)

func newCreateUserCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "createuser <username>",
		Short: "Create a staff account that can sign in to the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("DASHBOARD_PASSWORD")
			}
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			return withServices(cmd, func(ctx context.Context, svc *services.ServiceContainer) error {
				user, err := svc.Auth.CreateUser(ctx, args[0], email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address, also accepted as login")
	cmd.Flags().StringVar(&password, "password", "", "password (default: $DASHBOARD_PASSWORD or prompt)")
	return cmd
}
