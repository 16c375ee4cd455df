package admin

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cacildafilmes/cacilda/internal/config"
	"github.com/cacildafilmes/cacilda/internal/logging"
	"github.com/cacildafilmes/cacilda/internal/migrations"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  "Apply, roll back and list the embedded schema migrations",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	cmd.AddCommand(migrateListCmd())

	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("CACILDA_DATABASE_URL is not set")
			}

			status, err := migrations.Up(cfg.DatabaseURL, logging.New(logging.Config{Debug: cfg.Debug}))
			if err != nil {
				return err
			}
			if status.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Migrated to version %d\n", status.Version)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema already at version %d\n", status.Version)
			}
			return nil
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("CACILDA_DATABASE_URL is not set")
			}

			status, err := migrations.Down(cfg.DatabaseURL, steps, logging.New(logging.Config{Debug: cfg.Debug}))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d step(s), now at version %d\n", steps, status.Version)
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")

	return cmd
}

func migrateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the embedded migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := migrations.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
