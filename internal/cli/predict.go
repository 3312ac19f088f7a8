package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/offsetlab/carbonkit/internal/domain"
	"github.com/offsetlab/carbonkit/internal/estimator"
	"github.com/offsetlab/carbonkit/internal/util"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a half-life percentile from a saved fit",
	Long: `Predict a half-life percentile from a saved fit.

Evaluates every bootstrap sample at the given O:C ratio and returns the
requested percentile of the resulting half-life distribution. Low
percentiles give conservative (short) half-life estimates.

Examples:
  carbonkit predict --fit conservative --ratio 0.2
  carbonkit predict --fit conservative --ratio 0.2 --percentile 2.5
  carbonkit predict --fit conservative --ratio 0.2 --fraction 0.5`,
	RunE: runPredict,
}

// Flags
var (
	predictFit        string
	predictRatio      float64
	predictPercentile float64
	predictFraction   float64
)

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVarP(&predictFit, "fit", "f", "", "Saved fit ID or name (required)")
	predictCmd.Flags().Float64VarP(&predictRatio, "ratio", "r", 0, "O:C ratio to predict at (required)")
	predictCmd.Flags().Float64VarP(&predictPercentile, "percentile", "p", 50, "Percentile of the half-life distribution")
	predictCmd.Flags().Float64Var(&predictFraction, "fraction", 0, "Also report the time until this mass fraction remains")
	_ = predictCmd.MarkFlagRequired("fit")
	_ = predictCmd.MarkFlagRequired("ratio")
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executePredict(ctx, app, predictFit, predictRatio, predictPercentile, predictFraction, os.Stdout)
}

func executePredict(ctx context.Context, app *AppContext, fitRef string, ratio, percentile, fraction float64, w io.Writer) error {
	record, err := app.FitRepo.GetByRef(ctx, fitRef)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("fit %q not found", fitRef)
	}

	fit, err := app.FitRepo.Samples(ctx, record.ID)
	if err != nil {
		return err
	}

	if ratio > 1 {
		fmt.Fprintf(os.Stderr, "warning: ratio %.3f is outside the typical 0-1 range, prediction is an extrapolation\n", ratio)
	}

	halfLife, err := estimator.Predict(fit, ratio, percentile)
	if err != nil {
		return err
	}

	_ = app.Metrics.ExportPrediction(ctx, record.ID)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Fit:        %s (%s iterations)\n", record.Name, util.FormatNumber(int64(record.Iterations)))
	fmt.Fprintf(w, "  Ratio:      %.3f\n", ratio)
	fmt.Fprintf(w, "  Percentile: %g\n", percentile)
	fmt.Fprintf(w, "  Half-life:  %s years\n", util.FormatYears(halfLife))

	k, err := domain.DecayConstant(halfLife)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  Decay rate: %.6g / year\n", k)

	if fraction > 0 {
		t, err := domain.TimeToFraction(k, fraction)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %.0f%% remains after %s years\n", fraction*100, util.FormatYears(t))
	}
	return nil
}
