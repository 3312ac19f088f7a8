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
	"github.com/offsetlab/carbonkit/internal/loader"
	"github.com/offsetlab/carbonkit/internal/util"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage saved observation datasets",
}

var datasetsImportCmd = &cobra.Command{
	Use:   "import <file-or-url>",
	Short: "Import a CSV of ratio,half_life observations",
	Long: `Import a CSV of ratio,half_life observations.

Examples:
  carbonkit datasets import incubations.csv --name spokas2010
  carbonkit datasets import https://example.org/data.csv --name remote`,
	Args: cobra.ExactArgs(1),
	RunE: runDatasetsImport,
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved datasets",
	RunE:  runDatasetsList,
}

var datasetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the rows of a saved dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsShow,
}

var datasetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved dataset and its rows",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetsDelete,
}

// Flags
var datasetsImportName string

func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsImportCmd)
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsShowCmd)
	datasetsCmd.AddCommand(datasetsDeleteCmd)

	datasetsImportCmd.Flags().StringVar(&datasetsImportName, "name", "", "Name for the dataset (required)")
	_ = datasetsImportCmd.MarkFlagRequired("name")
}

func runDatasetsImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeDatasetsImport(ctx, app, args[0], datasetsImportName, os.Stdout)
}

func executeDatasetsImport(ctx context.Context, app *AppContext, source, name string, w io.Writer) error {
	existing, err := app.DatasetRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("dataset %q already exists", name)
	}

	obs, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}

	ds := &domain.Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	if err := app.DatasetRepo.Create(ctx, ds, obs); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	fmt.Fprintf(w, "Imported %d observation(s) as %q (%s)\n", len(obs), name, ds.ID)
	return nil
}

func runDatasetsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeDatasetsList(ctx, app, os.Stdout)
}

func executeDatasetsList(ctx context.Context, app *AppContext, w io.Writer) error {
	datasets, err := app.DatasetRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(datasets) == 0 {
		fmt.Fprintln(w, "No datasets saved yet")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROWS\tSOURCE\tCREATED\t")
	for _, ds := range datasets {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t\n",
			ds.Name, ds.Rows, ds.Source, util.FormatDateISO(ds.CreatedAt.Format(time.RFC3339)))
	}
	return tw.Flush()
}

func runDatasetsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeDatasetsShow(ctx, app, args[0], os.Stdout)
}

func executeDatasetsShow(ctx context.Context, app *AppContext, name string, w io.Writer) error {
	ds, err := app.DatasetRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("dataset %q not found", name)
	}

	obs, err := app.DatasetRepo.Observations(ctx, ds.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Dataset %s (%s)\nSource: %s\n\n", ds.Name, ds.ID, ds.Source)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RATIO\tHALF-LIFE\t")
	for _, o := range obs {
		fmt.Fprintf(tw, "%.3f\t%.3f\t\n", o.Ratio, o.HalfLife)
	}
	return tw.Flush()
}

func runDatasetsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close(ctx)

	return executeDatasetsDelete(ctx, app, args[0], os.Stdout)
}

func executeDatasetsDelete(ctx context.Context, app *AppContext, name string, w io.Writer) error {
	ds, err := app.DatasetRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("dataset %q not found", name)
	}
	if err := app.DatasetRepo.Delete(ctx, ds.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted dataset %q\n", name)
	return nil
}
