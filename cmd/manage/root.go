package main

import (
	"context"
	"fmt"
	"io"

	"order-dashboard/internal/config"
	"order-dashboard/internal/database"
	"order-dashboard/internal/repositories/sqlstore"
	"order-dashboard/internal/services"
	"order-dashboard/pkg/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

// newRootCmd creates the 'manage' command with its subcommands
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "manage",
		Short:        "Administrative tasks for the order dashboard",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newCreateUserCmd(),
		newInvokeCmd(),
	)
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, out io.Writer) *logrus.Logger {
	logger := server.NewLogger(cfg.Log)
	logger.SetOutput(out)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// openDatabase connects without applying migrations unless migrate is set
func openDatabase(ctx context.Context, cfg *config.Config, logger *logrus.Logger, migrate bool) (*database.ConnectionManager, error) {
	dbCfg := cfg.Database
	dbCfg.AutoMigrate = migrate
	cm := database.NewConnectionManager(dbCfg, logger)
	if err := cm.Connect(ctx); err != nil {
		return nil, err
	}
	return cm, nil
}

// withServices runs fn against a migrated database
func withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *services.ServiceContainer) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cm, err := openDatabase(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer cm.Close()

	svc, err := services.NewServiceContainer(sqlstore.NewStore(cm.GetDB(), cm.Driver(), logger), logger)
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}
