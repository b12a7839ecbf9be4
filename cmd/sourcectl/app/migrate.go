package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nike1016/selfoss/internal/infra/db"
)

func (c *cli) newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or drop the sources and items tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, cfg, err := c.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := db.MigrateUp(cmd.Context(), conn, cfg.Dialect); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.out, "migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Drop all tables, deleting every source and item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return errors.New("refusing to drop tables without --yes")
			}
			conn, cfg, err := c.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := db.MigrateDown(cmd.Context(), conn, cfg.Dialect); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.out, "tables dropped")
			return nil
		},
	}
	down.Flags().BoolP("yes", "y", false, "Confirm dropping all data")

	cmd.AddCommand(up, down)
	return cmd
}
