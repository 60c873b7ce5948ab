package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"chapter-quiz-service/internal/config"
	pgmigrations "chapter-quiz-service/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd applies the Postgres catalog and answer-history migrations.
// The SQLite store migrates itself on open.
func NewMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runMigrationsWithConfig(cmd.Context(), cfg)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Roll back the last migration group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrate.Migrator) error {
				group, err := m.Rollback(ctx)
				if err != nil {
					return err
				}
				if group.IsZero() {
					log.Printf("nothing to roll back")
					return nil
				}
				log.Printf("rolled back %s", group)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrate.Migrator) error {
				ms, err := m.MigrationsWithStatus(ctx)
				if err != nil {
					return err
				}
				printMigrationStatus(cmd.OutOrStdout(), ms)
				return nil
			})
		},
	})
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config) error {
	return migrateWith(ctx, cfg, func(ctx context.Context, m *migrate.Migrator) error {
		group, err := m.Migrate(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			log.Printf("migrations up to date")
			return nil
		}
		log.Printf("migrations applied: %s", group)
		return nil
	})
}

func withMigrator(ctx context.Context, configPath string, fn func(context.Context, *migrate.Migrator) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return migrateWith(ctx, cfg, fn)
}

func migrateWith(ctx context.Context, cfg config.Config, fn func(context.Context, *migrate.Migrator) error) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.Printf("migration unlock: %v", err)
		}
	}()
	return fn(ctx, migrator)
}

func printMigrationStatus(out io.Writer, ms migrate.MigrationSlice) {
	for _, m := range ms {
		state := "pending"
		if m.IsApplied() {
			state = fmt.Sprintf("applied (group %d)", m.GroupID)
		}
		fmt.Fprintf(out, "%-32s %s\n", m.Name, state)
	}
}
