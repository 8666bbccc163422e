package main

import (
	"github.com/spf13/cobra"

	"salon-booking/internal/migrate"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := migrate.New(a.cfg.DatabaseURL, a.log)
			if err != nil {
				return err
			}
			return r.Up(cmd.Context())
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := migrate.New(a.cfg.DatabaseURL, a.log)
			if err != nil {
				return err
			}
			return r.Status(cmd.Context())
		},
	}

	var to int64
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration, or down to --to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := migrate.New(a.cfg.DatabaseURL, a.log)
			if err != nil {
				return err
			}
			return r.Down(cmd.Context(), to)
		},
	}
	down.Flags().Int64Var(&to, "to", 0, "target version (0 rolls back one step)")

	cmd.AddCommand(up, status, down)
	return cmd
}
