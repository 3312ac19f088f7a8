package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/offsetlab/carbonkit/internal/adapters/turso"
	"github.com/offsetlab/carbonkit/internal/infrastructure/config"
	"github.com/offsetlab/carbonkit/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  carbonkit migrate      # Run all pending migrations
  carbonkit migrate 1    # Migrate to version 1
  carbonkit migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	url, err := cfg.Database.ResolveDatabaseURL()
	if err != nil {
		return err
	}
	db, err := turso.Open(url, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	all, err := migrate.Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	fmt.Printf("Current version: %d\n", currentVersion)

	if len(args) == 0 {
		if len(all) == 0 {
			fmt.Println("No migrations found")
			return nil
		}
		target := all[len(all)-1].Version
		if err := migrate.UpTo(ctx, db, all, currentVersion, target); err != nil {
			return err
		}
	} else {
		target, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[0], err)
		}
		switch {
		case target > currentVersion:
			err = migrate.UpTo(ctx, db, all, currentVersion, target)
		case target < currentVersion:
			err = migrate.DownTo(ctx, db, all, currentVersion, target)
		default:
			fmt.Printf("Already at version %d\n", target)
			return nil
		}
		if err != nil {
			return err
		}
	}

	newVersion, _, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get new version: %w", err)
	}
	fmt.Printf("Migrated to version: %d\n", newVersion)
	return nil
}
