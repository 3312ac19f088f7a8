package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/offsetlab/carbonkit/internal/domain"
	"github.com/offsetlab/carbonkit/internal/util"
)

var fitsCmd = &cobra.Command{
	Use:   "fits",
	Short: "Manage saved bootstrap fits",
}

var fitsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved fits",
	RunE:  runFitsList,
}

var fitsShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a saved fit and its median model",
	Args:  cobra.ExactArgs(1),
	RunE:  runFitsShow,
}

var fitsDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a saved fit and its samples",
	Args:  cobra.ExactArgs(1),
	RunE:  runFitsDelete,
}

func init() {
	rootCmd.AddCommand(fitsCmd)
	fitsCmd.AddCommand(fitsListCmd)
	fitsCmd.AddCommand(fitsShowCmd)
	fitsCmd.AddCommand(fitsDeleteCmd)
}

func runFitsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeFitsList(ctx, app, os.Stdout)
}

func executeFitsList(ctx context.Context, app *AppContext, w io.Writer) error {
	fits, err := app.FitRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(fits) == 0 {
		fmt.Fprintln(w, "No fits saved yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tITERATIONS\tSEED\tCREATED\t")
	for _, f := range fits {
		seed := "-"
		if f.Seed != nil {
			seed = fmt.Sprintf("%d", *f.Seed)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n",
			f.Name, util.FormatNumber(int64(f.Iterations)), seed,
			util.FormatDateISO(f.CreatedAt.Format(time.RFC3339)))
	}
	return tw.Flush()
}

func runFitsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeFitsShow(ctx, app, args[0], os.Stdout)
}

func executeFitsShow(ctx context.Context, app *AppContext, ref string, w io.Writer) error {
	record, err := app.FitRepo.GetByRef(ctx, ref)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("fit %q not found", ref)
	}

	fit, err := app.FitRepo.Samples(ctx, record.ID)
	if err != nil {
		return err
	}
	interceptMed, err := domain.Percentile(fit.Intercepts, 50)
	if err != nil {
		return err
	}
	slopeMed, err := domain.Percentile(fit.Slopes, 50)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Fit %s (%s)\n", record.Name, record.ID)
	fmt.Fprintf(w, "Iterations: %s\n", util.FormatNumber(int64(record.Iterations)))
	if record.Seed != nil {
		fmt.Fprintf(w, "Seed:       %d\n", *record.Seed)
	}
	fmt.Fprintf(w, "Created:    %s\n", util.FormatDateISO(record.CreatedAt.Format(time.RFC3339)))
	fmt.Fprintf(w, "Median model: ln(half-life) = %.4f + %.4f * ratio\n", interceptMed, slopeMed)
	return nil
}

func runFitsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeFitsDelete(ctx, app, args[0], os.Stdout)
}

func executeFitsDelete(ctx context.Context, app *AppContext, ref string, w io.Writer) error {
	record, err := app.FitRepo.GetByRef(ctx, ref)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("fit %q not found", ref)
	}
	if err := app.FitRepo.Delete(ctx, record.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted fit %q\n", record.Name)
	return nil
}
