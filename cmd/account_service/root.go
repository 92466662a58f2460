package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"account_service/internal/app"
	"account_service/internal/config"
	"account_service/internal/logger"
	"account_service/internal/storage/postgres"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "account_service",
		Short: "User registration and login backend issuing signed access tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML or .env config file (default: environment only)")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newMigrateCmd(&configPath))

	return rootCmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to the configured postgres database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}

			lgr := logger.Setup(cfg.Env)

			if err := postgres.Migrate(cmd.Context(), cfg.DB.DbURL); err != nil {
				lgr.Error("migration failed", logger.Err(err))
				return err
			}

			lgr.Info("migrations applied")

			return nil
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	lgr := logger.Setup(cfg.Env)
	lgr.Info("starting account service")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lgr)
	if err != nil {
		lgr.Error("failed to initialize", logger.Err(err))
		return fmt.Errorf("init: %w", err)
	}

	return a.Run(ctx)
}
