package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the credits schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withDatabase(cmd.Context(), func(db *database.Client) error {
					if err := db.Migrate(a.cfg.MigrationsPath); err != nil {
						return err
					}
					a.logger.Info("migrations applied", zap.String("path", a.cfg.MigrationsPath))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withDatabase(cmd.Context(), func(db *database.Client) error {
					if err := db.MigrateDown(a.cfg.MigrationsPath); err != nil {
						return err
					}
					a.logger.Info("migrations rolled back", zap.String("path", a.cfg.MigrationsPath))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.withDatabase(cmd.Context(), func(db *database.Client) error {
					v, dirty, err := db.MigrationVersion(a.cfg.MigrationsPath)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) withDatabase(ctx context.Context, fn func(*database.Client) error) error {
	if err := a.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	db, err := database.NewClient(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "failed to connect to database")
	}
	defer db.Close()
	return fn(db)
}
