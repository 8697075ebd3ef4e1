package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Bvcott21/ai-store/internal/app"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	log.Info("starting auth service",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		return err
	}

	// Run the application. This blocks until shutdown.
	if err := application.Run(cmd.Context()); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		return err
	}

	log.Info("auth service stopped")
	return nil
}
