package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spec-kit/orgchart-service/internal/bootstrap"
	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/observability"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgctl",
		Short:         "Org chart administration tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newMigrateCmd(), newReconcileCmd(), newTreeCmd())
	return cmd
}

// withContainer loads configuration, wires the application and runs fn.
func withContainer(ctx context.Context, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	c, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}
