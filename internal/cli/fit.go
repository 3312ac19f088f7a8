package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/offsetlab/carbonkit/internal/domain"
	"github.com/offsetlab/carbonkit/internal/estimator"
	"github.com/offsetlab/carbonkit/internal/loader"
	"github.com/offsetlab/carbonkit/internal/plotting"
	"github.com/offsetlab/carbonkit/internal/ports"
	"github.com/offsetlab/carbonkit/internal/util"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a bootstrap half-life model from incubation data",
	Long: `Fit a bootstrap half-life model from incubation data.

Each bootstrap iteration resamples the observations with replacement and
regresses ln(half-life) on O:C ratio. The resulting sample of regression
lines captures the uncertainty of the fit.

Examples:
  carbonkit fit --input incubations.csv
  carbonkit fit --input https://example.org/data.csv --iterations 50000
  carbonkit fit --dataset spokas2010 --seed 42 --save --name conservative
  carbonkit fit --input data.csv --ratio 0.1 --ratio 0.4 --lower 5 --upper 95
  carbonkit fit --input data.csv --plot fit.png`,
	RunE: runFit,
}

// Flags
var (
	fitInput      string
	fitDataset    string
	fitIterations int
	fitSeed       int64
	fitSave       bool
	fitName       string
	fitRatios     []float64
	fitLower      float64
	fitUpper      float64
	fitPlot       string
)

func init() {
	rootCmd.AddCommand(fitCmd)

	fitCmd.Flags().StringVarP(&fitInput, "input", "i", "", "CSV file path or URL with ratio,half_life rows")
	fitCmd.Flags().StringVarP(&fitDataset, "dataset", "d", "", "Name of a saved dataset to fit")
	fitCmd.Flags().IntVarP(&fitIterations, "iterations", "n", 0, "Bootstrap iterations (default from config)")
	fitCmd.Flags().Int64Var(&fitSeed, "seed", 0, "Seed for reproducible fits")
	fitCmd.Flags().BoolVar(&fitSave, "save", false, "Persist the fit for later predictions")
	fitCmd.Flags().StringVar(&fitName, "name", "", "Name for the saved fit")
	fitCmd.Flags().Float64SliceVarP(&fitRatios, "ratio", "r", nil, "O:C ratios to predict half-lives for")
	fitCmd.Flags().Float64Var(&fitLower, "lower", 2.5, "Lower percentile of the prediction band")
	fitCmd.Flags().Float64Var(&fitUpper, "upper", 97.5, "Upper percentile of the prediction band")
	fitCmd.Flags().StringVar(&fitPlot, "plot", "", "Write a fit-band figure to this path (.png, .svg, .pdf)")
}

type fitOptions struct {
	input      string
	dataset    string
	iterations int
	seed       *int64
	save       bool
	name       string
	ratios     []float64
	lower      float64
	upper      float64
	plot       string
}

func runFit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	opts := fitOptions{
		input:      fitInput,
		dataset:    fitDataset,
		iterations: fitIterations,
		save:       fitSave,
		name:       fitName,
		ratios:     fitRatios,
		lower:      fitLower,
		upper:      fitUpper,
		plot:       fitPlot,
	}
	if cmd.Flags().Changed("seed") {
		opts.seed = &fitSeed
	}
	if opts.iterations == 0 {
		opts.iterations = app.Config.Bootstrap.Iterations
	}

	return executeFit(ctx, app, opts, os.Stdout)
}

func executeFit(ctx context.Context, app *AppContext, opts fitOptions, w io.Writer) error {
	obs, sourceLabel, datasetID, err := resolveObservations(ctx, app, opts.input, opts.dataset)
	if err != nil {
		return err
	}

	var src estimator.Source
	if opts.seed != nil {
		src = estimator.NewSeededSource(uint64(*opts.seed))
	} else {
		src = estimator.NewSeededSource(uint64(time.Now().UnixNano()))
	}

	start := time.Now()
	fit, err := estimator.Fit(obs, opts.iterations, src)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	record := &domain.FitRecord{
		ID:         uuid.NewString(),
		DatasetID:  datasetID,
		Name:       opts.name,
		Iterations: fit.Iterations(),
		Seed:       opts.seed,
		CreatedAt:  time.Now().UTC(),
	}
	if opts.save {
		if record.Name == "" {
			record.Name = fmt.Sprintf("fit-%s", time.Now().UTC().Format("20060102-150405"))
		}
		if err := app.FitRepo.Create(ctx, record, fit); err != nil {
			return fmt.Errorf("failed to save fit: %w", err)
		}
	}

	_ = app.Metrics.ExportFitMetrics(ctx, &ports.FitMetrics{
		FitID:        record.ID,
		DatasetName:  sourceLabel,
		Observations: len(obs),
		Iterations:   fit.Iterations(),
		Seeded:       opts.seed != nil,
		Duration:     elapsed,
	})

	if err := printFitSummary(w, record, fit, obs, sourceLabel, opts); err != nil {
		return err
	}

	if opts.plot != "" {
		if err := plotting.SaveFitBand(obs, fit, opts.lower, opts.upper, opts.plot); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nFigure written to %s\n", opts.plot)
	}
	return nil
}

// resolveObservations loads observations from --input (file or URL) or from
// a saved dataset. Exactly one of the two must be given.
func resolveObservations(ctx context.Context, app *AppContext, input, dataset string) ([]domain.Observation, string, string, error) {
	switch {
	case input != "" && dataset != "":
		return nil, "", "", fmt.Errorf("use either --input or --dataset, not both")
	case input != "":
		obs, err := loader.Load(ctx, input)
		if err != nil {
			return nil, "", "", err
		}
		return obs, input, "", nil
	case dataset != "":
		ds, err := app.DatasetRepo.GetByName(ctx, dataset)
		if err != nil {
			return nil, "", "", err
		}
		if ds == nil {
			return nil, "", "", fmt.Errorf("dataset %q not found", dataset)
		}
		obs, err := app.DatasetRepo.Observations(ctx, ds.ID)
		if err != nil {
			return nil, "", "", err
		}
		return obs, ds.Name, ds.ID, nil
	default:
		return nil, "", "", fmt.Errorf("either --input or --dataset is required")
	}
}

func printFitSummary(w io.Writer, record *domain.FitRecord, fit *domain.BootstrapFit, obs []domain.Observation, sourceLabel string, opts fitOptions) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bootstrap Fit")
	fmt.Fprintln(w, "  =============")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Source:      %s\n", sourceLabel)
	fmt.Fprintf(w, "  Rows:        %d\n", len(obs))
	fmt.Fprintf(w, "  Iterations:  %s\n", util.FormatNumber(int64(fit.Iterations())))
	if record.Seed != nil {
		fmt.Fprintf(w, "  Seed:        %d\n", *record.Seed)
	} else {
		fmt.Fprintf(w, "  Seed:        (time-based)\n")
	}
	if opts.save {
		fmt.Fprintf(w, "  Saved as:    %s (%s)\n", record.Name, record.ID)
	}

	slopeMed, err := domain.Percentile(fit.Slopes, 50)
	if err != nil {
		return err
	}
	interceptMed, err := domain.Percentile(fit.Intercepts, 50)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Median model: ln(half-life) = %.4f + %.4f * ratio\n", interceptMed, slopeMed)

	if len(opts.ratios) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  ratio\tp%g\tmedian\tp%g\t\n", opts.lower, opts.upper)
	for _, ratio := range opts.ratios {
		lo, err := estimator.Predict(fit, ratio, opts.lower)
		if err != nil {
			return err
		}
		med, err := estimator.Predict(fit, ratio, 50)
		if err != nil {
			return err
		}
		hi, err := estimator.Predict(fit, ratio, opts.upper)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "  %.3f\t%s\t%s\t%s\t\n", ratio,
			util.FormatYears(lo), util.FormatYears(med), util.FormatYears(hi))
	}
	return tw.Flush()
}
