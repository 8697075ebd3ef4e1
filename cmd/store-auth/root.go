package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Bvcott21/ai-store/internal/app"
	"github.com/Bvcott21/ai-store/internal/config"
	"github.com/Bvcott21/ai-store/pkg/logger"
)

// NewRootCmd creates the root command. Without a subcommand it serves HTTP.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "store-auth",
		Short:         "Storefront authentication and session service",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// setup loads configuration and builds the service logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		return nil, nil, err
	}
	return cfg, logger.New(config.ServiceName, cfg.LogLevel), nil
}
