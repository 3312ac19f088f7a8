package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/offsetlab/carbonkit/internal/adapters/otel"
	"github.com/offsetlab/carbonkit/internal/adapters/turso"
	"github.com/offsetlab/carbonkit/internal/infrastructure/config"
	"github.com/offsetlab/carbonkit/internal/migrate"
)

// testApp builds an AppContext backed by an in-memory SQLite database with
// all migrations applied. Fast and suitable for command-level tests.
func testApp(t *testing.T) *AppContext {
	t.Helper()

	// A uniquely named in-memory database per test: a bare shared-cache
	// ":memory:" DSN is one process-wide database, so state would leak
	// between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	app := &AppContext{
		Config: &config.Config{
			Bootstrap: config.Bootstrap{Iterations: 200},
		},
		DB:          db,
		DatasetRepo: turso.NewDatasetRepository(db),
		FitRepo:     turso.NewFitRepository(db),
		Metrics:     otel.NewNoOpExporter(),
	}
	t.Cleanup(func() {
		_ = app.Close(ctx)
	})
	return app
}
