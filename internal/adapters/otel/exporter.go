package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/offsetlab/carbonkit/internal/ports"
)

const (
	serviceName    = "carbonkit"
	serviceVersion = "1.0.0"
)

// Exporter publishes analysis metrics to an OTEL Collector over OTLP/gRPC.
type Exporter struct {
	provider         *sdkmetric.MeterProvider
	meter            metric.Meter
	fitsTotal        metric.Int64Counter
	iterationsTotal  metric.Int64Counter
	fitDurationHist  metric.Float64Histogram
	observationsHist metric.Int64Histogram
	predictionsTotal metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	fitsTotal, err := meter.Int64Counter(
		"carbonkit_fits_total",
		metric.WithDescription("Bootstrap fits completed"),
		metric.WithUnit("{fit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fits counter: %w", err)
	}

	iterationsTotal, err := meter.Int64Counter(
		"carbonkit_bootstrap_iterations_total",
		metric.WithDescription("Bootstrap iterations executed across fits"),
		metric.WithUnit("{iteration}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating iterations counter: %w", err)
	}

	fitDurationHist, err := meter.Float64Histogram(
		"carbonkit_fit_duration_seconds",
		metric.WithDescription("Wall-clock duration of bootstrap fits"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	observationsHist, err := meter.Int64Histogram(
		"carbonkit_fit_observations",
		metric.WithDescription("Observation count per fitted dataset"),
		metric.WithUnit("{observation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating observations histogram: %w", err)
	}

	predictionsTotal, err := meter.Int64Counter(
		"carbonkit_predictions_total",
		metric.WithDescription("Percentile predictions served"),
		metric.WithUnit("{prediction}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating predictions counter: %w", err)
	}

	return &Exporter{
		provider:         provider,
		meter:            meter,
		fitsTotal:        fitsTotal,
		iterationsTotal:  iterationsTotal,
		fitDurationHist:  fitDurationHist,
		observationsHist: observationsHist,
		predictionsTotal: predictionsTotal,
	}, nil
}

// ExportFitMetrics records one completed bootstrap fit.
func (e *Exporter) ExportFitMetrics(ctx context.Context, m *ports.FitMetrics) error {
	opt := metric.WithAttributes(
		attribute.String("dataset", m.DatasetName),
		attribute.Bool("seeded", m.Seeded),
	)

	e.fitsTotal.Add(ctx, 1, opt)
	e.iterationsTotal.Add(ctx, int64(m.Iterations), opt)
	e.fitDurationHist.Record(ctx, m.Duration.Seconds(), opt)
	e.observationsHist.Record(ctx, int64(m.Observations), opt)

	return nil
}

// ExportPrediction records one percentile query against a stored fit.
func (e *Exporter) ExportPrediction(ctx context.Context, fitID string) error {
	e.predictionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("fit_id", fitID)))
	return nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
