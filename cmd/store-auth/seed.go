package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bvcott21/ai-store/internal/app"
	"github.com/Bvcott21/ai-store/internal/service"
)

const (
	defaultSeedTimeout = 2 * time.Minute
	defaultSeedUsers   = 10
)

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	var (
		timeout time.Duration
		users   int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts into an empty store",
		Long: `Creates ROLE_USER and demo accounts user1..userN with addresses.
This command is idempotent - it does nothing when accounts already exist.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if users < 1 {
				return fmt.Errorf("--users must be positive, got %d", users)
			}

			cfg, log, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			created, err := app.Seed(ctx, cfg, log, users)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}

			if created == 0 {
				cmd.Println("store already has accounts, nothing seeded")
				return nil
			}
			cmd.Printf("seeded %d accounts, password %q\n", created, service.DemoPassword)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().IntVar(&users, "users", defaultSeedUsers, "number of demo accounts to create")

	return cmd
}
