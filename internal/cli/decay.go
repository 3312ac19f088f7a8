package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/offsetlab/carbonkit/internal/domain"
	"github.com/offsetlab/carbonkit/internal/estimator"
	"github.com/offsetlab/carbonkit/internal/plotting"
	"github.com/offsetlab/carbonkit/internal/util"
)

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Project a first-order mass decay curve",
	Long: `Project a first-order mass decay curve.

The half-life comes either from --half-life directly or from a saved fit
evaluated at an O:C ratio and percentile.

Examples:
  carbonkit decay --half-life 338 --initial 100 --horizon 1000
  carbonkit decay --fit conservative --ratio 0.2 --percentile 2.5
  carbonkit decay --half-life 50 --fraction 0.1
  carbonkit decay --half-life 338 --plot decay.png`,
	RunE: runDecay,
}

// Flags
var (
	decayHalfLife   float64
	decayFit        string
	decayRatio      float64
	decayPercentile float64
	decayInitial    float64
	decayHorizon    float64
	decayStep       float64
	decayFraction   float64
	decayPlot       string
)

func init() {
	rootCmd.AddCommand(decayCmd)

	decayCmd.Flags().Float64Var(&decayHalfLife, "half-life", 0, "Half-life in years")
	decayCmd.Flags().StringVarP(&decayFit, "fit", "f", "", "Saved fit ID or name to derive the half-life from")
	decayCmd.Flags().Float64VarP(&decayRatio, "ratio", "r", 0, "O:C ratio to evaluate the fit at")
	decayCmd.Flags().Float64VarP(&decayPercentile, "percentile", "p", 50, "Percentile of the fitted half-life distribution")
	decayCmd.Flags().Float64Var(&decayInitial, "initial", 100, "Initial mass")
	decayCmd.Flags().Float64Var(&decayHorizon, "horizon", 1000, "Projection horizon in years")
	decayCmd.Flags().Float64Var(&decayStep, "step", 0, "Sampling step in years (default horizon/20)")
	decayCmd.Flags().Float64Var(&decayFraction, "fraction", 0, "Also report the time until this mass fraction remains")
	decayCmd.Flags().StringVar(&decayPlot, "plot", "", "Write a decay-curve figure to this path (.png, .svg, .pdf)")
}

type decayOptions struct {
	halfLife   float64
	fit        string
	ratio      float64
	percentile float64
	initial    float64
	horizon    float64
	step       float64
	fraction   float64
	plot       string
}

func runDecay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	opts := decayOptions{
		halfLife:   decayHalfLife,
		fit:        decayFit,
		ratio:      decayRatio,
		percentile: decayPercentile,
		initial:    decayInitial,
		horizon:    decayHorizon,
		step:       decayStep,
		fraction:   decayFraction,
		plot:       decayPlot,
	}
	return executeDecay(ctx, app, opts, os.Stdout)
}

func executeDecay(ctx context.Context, app *AppContext, opts decayOptions, w io.Writer) error {
	halfLife := opts.halfLife
	if opts.fit != "" {
		record, err := app.FitRepo.GetByRef(ctx, opts.fit)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("fit %q not found", opts.fit)
		}
		fit, err := app.FitRepo.Samples(ctx, record.ID)
		if err != nil {
			return err
		}
		halfLife, err = estimator.Predict(fit, opts.ratio, opts.percentile)
		if err != nil {
			return err
		}
	} else if opts.halfLife == 0 {
		return fmt.Errorf("either --half-life or --fit is required")
	}

	// DecayConstant rejects a negative or zero half-life with the proper
	// domain error.
	k, err := domain.DecayConstant(halfLife)
	if err != nil {
		return err
	}

	step := opts.step
	if step <= 0 {
		step = opts.horizon / 20
	}
	curve, err := domain.Curve(opts.initial, k, opts.horizon, step)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Half-life:      %s years\n", util.FormatYears(halfLife))
	fmt.Fprintf(w, "  Decay constant: %.6g / year\n", k)
	if opts.fraction > 0 {
		t, err := domain.TimeToFraction(k, opts.fraction)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %.0f%% remains after %s years\n", opts.fraction*100, util.FormatYears(t))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  year\tmass\tremaining\t\n")
	for _, pt := range curve {
		fmt.Fprintf(tw, "  %.0f\t%.3f\t%.1f%%\t\n", pt.Year, pt.Mass, pt.Mass/opts.initial*100)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.plot != "" {
		title := fmt.Sprintf("First-order decay, half-life %s years", util.FormatYears(halfLife))
		if err := plotting.SaveDecayCurve(curve, title, opts.plot); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nFigure written to %s\n", opts.plot)
	}
	return nil
}
