package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/spec-kit/orgchart-service/internal/bootstrap"
	"github.com/spec-kit/orgchart-service/internal/persistence"
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations to the configured Postgres database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *bootstrap.Container) error {
				if !c.Postgres.Enabled() {
					return errors.New("POSTGRES_DSN is required for migrate")
				}
				if dir == "" {
					dir = c.Config.Postgres.MigrationsDir
				}
				return persistence.RunMigrations(ctx, c.Postgres.PoolHandle(), dir, c.Logger)
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (default POSTGRES_MIGRATIONS_DIR)")
	return cmd
}
