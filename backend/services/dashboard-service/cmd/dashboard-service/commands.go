package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evdash/backend/libs/logging"
	"evdash/backend/services/dashboard-service/internal/app"
	"evdash/backend/services/dashboard-service/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboard-service",
		Short:         "EV charging dashboard API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var migrate, seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: withApp(func(ctx context.Context, application *app.App, logger *zap.Logger) error {
			if migrate {
				if err := application.Migrate(ctx); err != nil {
					return err
				}
			}
			if seed {
				if err := application.Seed(ctx); err != nil {
					return err
				}
			}
			if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("application stopped with error", zap.Error(err))
				return err
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	cmd.Flags().BoolVar(&seed, "seed", false, "load demo data before serving")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables and indexes",
		RunE: withApp(func(ctx context.Context, application *app.App, _ *zap.Logger) error {
			return application.Migrate(ctx)
		}),
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, stations and sessions",
		RunE: withApp(func(ctx context.Context, application *app.App, _ *zap.Logger) error {
			if err := application.Migrate(ctx); err != nil {
				return err
			}
			return application.Seed(ctx)
		}),
	}
}

// withApp loads config, builds the logger and the application graph, then hands
// them to fn.
func withApp(fn func(ctx context.Context, application *app.App, logger *zap.Logger) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger, err := logging.NewLogger(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Name:   "dashboard-service",
		})
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		application, err := app.New(cfg, logger)
		if err != nil {
			logger.Error("failed to initialize application", zap.Error(err))
			return err
		}
		defer application.Close()

		return fn(cmd.Context(), application, logger)
	}
}
