package ports

import (
	"context"
	"time"
)

// MetricsExporter publishes analysis metrics to an external observability
// system. The CLI swaps in a no-op implementation when export is disabled,
// so instrumentation never blocks an analysis.
type MetricsExporter interface {
	// ExportFitMetrics records one completed bootstrap fit.
	ExportFitMetrics(ctx context.Context, m *FitMetrics) error
	// ExportPrediction records one percentile query against a fit.
	ExportPrediction(ctx context.Context, fitID string) error
	// Close flushes pending metrics and shuts the exporter down.
	Close(ctx context.Context) error
}

// FitMetrics describes one bootstrap fit run.
type FitMetrics struct {
	FitID        string
	DatasetName  string
	Observations int
	Iterations   int
	Seeded       bool
	Duration     time.Duration
}
