package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bvcott21/ai-store/internal/app"
)

const defaultMigrateTimeout = time.Minute

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := app.OpenStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			pool.Close()

			cmd.Println("migrations applied")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrateTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}
