package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/offsetlab/carbonkit/internal/adapters/otel"
	"github.com/offsetlab/carbonkit/internal/adapters/turso"
	"github.com/offsetlab/carbonkit/internal/infrastructure/config"
	"github.com/offsetlab/carbonkit/internal/migrate"
	"github.com/offsetlab/carbonkit/internal/ports"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config      *config.Config
	DB          *sql.DB
	DatasetRepo ports.DatasetRepository
	FitRepo     ports.FitRepository
	Metrics     ports.MetricsExporter
}

// NewAppContext creates an AppContext with all dependencies initialized.
// The schema is migrated on open so a fresh local database is usable
// immediately.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	url, err := cfg.Database.ResolveDatabaseURL()
	if err != nil {
		return nil, err
	}

	db, err := turso.Open(url, cfg.Database.AuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &AppContext{
		Config:      cfg,
		DB:          db,
		DatasetRepo: turso.NewDatasetRepository(db),
		FitRepo:     turso.NewFitRepository(db),
		Metrics:     newMetricsExporter(ctx),
	}, nil
}

// newMetricsExporter returns the OTLP exporter when configured, otherwise a
// no-op. Metrics failures degrade to no-op instead of blocking an analysis.
func newMetricsExporter(ctx context.Context) ports.MetricsExporter {
	otelCfg := otel.LoadConfig()
	if !otelCfg.Enabled {
		return otel.NewNoOpExporter()
	}

	exporter, err := otel.NewExporter(ctx, otelCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: metrics exporter disabled: %v\n", err)
		return otel.NewNoOpExporter()
	}
	return exporter
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close(ctx context.Context) error {
	if a.Metrics != nil {
		_ = a.Metrics.Close(ctx)
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
