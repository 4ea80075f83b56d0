package cli

import (
	"fmt"

	"wedding-site-api/config"
	"wedding-site-api/internal/database"
	"wedding-site-api/internal/migration"
	"wedding-site-api/pkg/logger"

	"github.com/spf13/cobra"
)

// NewMigrateCommand 建立 migrate CLI：up、down、version，資料庫設定與 server 相同
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the wedding site database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *migration.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					return printVersion(cmd, m)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *migration.Migrator) error {
					return m.Down()
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *migration.Migrator) error {
					return printVersion(cmd, m)
				})
			},
		},
	)

	return cmd
}

func printVersion(cmd *cobra.Command, m *migration.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", version, dirty)
	return nil
}

func withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	log := logger.WithComponent("migration")

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.InitSQLite(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		m, err := migration.NewSQLite(db, log)
		if err != nil {
			return err
		}
		return fn(m)

	case config.DriverPostgres:
		m, err := migration.NewPostgres(&cfg.Database, log)
		if err != nil {
			return err
		}
		defer m.Close()
		return fn(m)

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
