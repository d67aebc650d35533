package main

import (
	"fmt"

	"github.com/aussiebroadwan/inkwell/internal/blog/app"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Long: `Brings the configured database schema up to date. The server does
this on start as well; run it separately when the web process lacks DDL
rights.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}

			db, err := app.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ApplyMigrations(); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			n, err := db.Users().CountUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("count users: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s), users: %d\n", cfg.DatabaseDriver, n)
			return nil
		},
	}
}
