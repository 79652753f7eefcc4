package command

import (
	"fmt"

	"codeconnect/database"
	"codeconnect/internal/config"
	"codeconnect/internal/logger"

	"github.com/spf13/cobra"
)

// migrate talks to the database directly, not to the API
func newMigrateCmd() *cobra.Command {
	var databaseURL string

	open := func() (*database.Migrator, error) {
		if databaseURL == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return nil, err
			}
			databaseURL = cfg.DatabaseURL
		}
		return database.NewMigrator(databaseURL, logger.New(logger.Config{Level: "info", Format: "text"}))
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
		Long:  `Runs the embedded SQL migrations against DATABASE_URL (or --database-url).`,
	}
	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL, defaults to DATABASE_URL")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			return m.Up()
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			return m.Down(steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()

			version, dirty, err := m.Version()
			if err != nil {
				return fmt.Errorf("failed to read version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}
