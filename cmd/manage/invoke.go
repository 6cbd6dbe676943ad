package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"order-dashboard/pkg/lambda"
	"order-dashboard/pkg/server"

	"github.com/spf13/cobra"
)

func newInvokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <event.json>",
		Short: "Run one serverless event through the adapter and print the reply",
		Long:  "Reads an API Gateway, function URL or plain {method,path,...} event from a file (or - for stdin), serves it with the full application and prints the reply envelope.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read event: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			adapter := lambda.Bootstrap(
				server.InitFunc(ctx, server.StaticConfig(cfg), server.Options{Logger: logger}),
				lambda.WithLogger(logger),
			)

			reply := adapter.Handle(ctx, json.RawMessage(raw))
			out, err := reply.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
