package otel

import (
	"context"

	"github.com/offsetlab/carbonkit/internal/ports"
)

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) ExportFitMetrics(ctx context.Context, m *ports.FitMetrics) error {
	return nil
}

func (e *NoOpExporter) ExportPrediction(ctx context.Context, fitID string) error {
	return nil
}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
