package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/offsetlab/carbonkit/internal/domain"
)

// noiselessCSV holds observations lying exactly on ln(h) = ln(1000) - 23.026*r,
// so every bootstrap resample recovers the same line and predictions are exact.
const noiselessCSV = `ratio,half_life
0.1,100
0.2,10
0.3,1
0.4,0.1
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "obs.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}
	return path
}

func seedDataset(t *testing.T, app *AppContext, name string) *domain.Dataset {
	t.Helper()
	ds := &domain.Dataset{ID: uuid.NewString(), Name: name, Source: "test"}
	obs := []domain.Observation{
		{Ratio: 0.1, HalfLife: 100},
		{Ratio: 0.2, HalfLife: 10},
		{Ratio: 0.3, HalfLife: 1},
		{Ratio: 0.4, HalfLife: 0.1},
	}
	if err := app.DatasetRepo.Create(context.Background(), ds, obs); err != nil {
		t.Fatalf("Failed to seed dataset: %v", err)
	}
	return ds
}

func TestExecuteFit_FromCSV(t *testing.T) {
	app := testApp(t)
	seed := int64(42)

	var buf bytes.Buffer
	opts := fitOptions{
		input:      writeTempCSV(t, noiselessCSV),
		iterations: 200,
		seed:       &seed,
		ratios:     []float64{0.1},
		lower:      2.5,
		upper:      97.5,
	}
	if err := executeFit(context.Background(), app, opts, &buf); err != nil {
		t.Fatalf("executeFit() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Bootstrap Fit") {
		t.Errorf("missing summary header in output:\n%s", out)
	}
	if !strings.Contains(out, "Rows:        4") {
		t.Errorf("missing row count in output:\n%s", out)
	}
	// Noiseless data: every percentile at ratio 0.1 is exactly 100 years.
	if !strings.Contains(out, "100") {
		t.Errorf("expected half-life 100 at ratio 0.1 in output:\n%s", out)
	}
}

func TestExecuteFit_SaveFromCSV(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	seed := int64(9)

	// Saving a fit run straight from a file must work without any dataset
	// row to reference.
	var buf bytes.Buffer
	opts := fitOptions{
		input:      writeTempCSV(t, noiselessCSV),
		iterations: 50,
		seed:       &seed,
		save:       true,
		name:       "adhoc",
		lower:      2.5,
		upper:      97.5,
	}
	if err := executeFit(ctx, app, opts, &buf); err != nil {
		t.Fatalf("executeFit() error = %v", err)
	}

	record, err := app.FitRepo.GetByRef(ctx, "adhoc")
	if err != nil {
		t.Fatalf("GetByRef() error = %v", err)
	}
	if record == nil {
		t.Fatal("saved fit not found")
	}
	if record.DatasetID != "" {
		t.Errorf("DatasetID = %q, want empty for a file-sourced fit", record.DatasetID)
	}
	if record.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want the save time")
	}
	if _, err := app.FitRepo.Samples(ctx, record.ID); err != nil {
		t.Errorf("Samples() error = %v", err)
	}
}

func TestExecuteFit_FromDatasetAndSave(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	seedDataset(t, app, "incubations")
	seed := int64(7)

	var buf bytes.Buffer
	opts := fitOptions{
		dataset:    "incubations",
		iterations: 100,
		seed:       &seed,
		save:       true,
		name:       "conservative",
		lower:      2.5,
		upper:      97.5,
	}
	if err := executeFit(ctx, app, opts, &buf); err != nil {
		t.Fatalf("executeFit() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Saved as:    conservative") {
		t.Errorf("missing save confirmation in output:\n%s", buf.String())
	}

	record, err := app.FitRepo.GetByRef(ctx, "conservative")
	if err != nil {
		t.Fatalf("GetByRef() error = %v", err)
	}
	if record == nil {
		t.Fatal("saved fit not found")
	}
	if record.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", record.Iterations)
	}
	if record.Seed == nil || *record.Seed != 7 {
		t.Errorf("Seed = %v, want 7", record.Seed)
	}
	if record.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want the save time")
	}
}

func TestExecuteFit_InputErrors(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts fitOptions
	}{
		{"no source", fitOptions{iterations: 10}},
		{"both sources", fitOptions{input: "a.csv", dataset: "b", iterations: 10}},
		{"missing dataset", fitOptions{dataset: "nope", iterations: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := executeFit(ctx, app, tt.opts, &buf); err == nil {
				t.Error("executeFit() expected error, got nil")
			}
		})
	}
}

func TestExecutePredict_SavedFit(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	seedDataset(t, app, "incubations")
	seed := int64(1)

	var fitOut bytes.Buffer
	opts := fitOptions{
		dataset:    "incubations",
		iterations: 50,
		seed:       &seed,
		save:       true,
		name:       "base",
		lower:      2.5,
		upper:      97.5,
	}
	if err := executeFit(ctx, app, opts, &fitOut); err != nil {
		t.Fatalf("executeFit() error = %v", err)
	}

	var buf bytes.Buffer
	if err := executePredict(ctx, app, "base", 0.1, 2.5, 0.5, &buf); err != nil {
		t.Fatalf("executePredict() error = %v", err)
	}
	out := buf.String()
	// Noiseless data: the 2.5th percentile at ratio 0.1 is exactly 100, and
	// half the mass is gone after exactly one half-life.
	if !strings.Contains(out, "Half-life:  100") {
		t.Errorf("expected half-life 100 in output:\n%s", out)
	}
	if !strings.Contains(out, "50% remains after 100") {
		t.Errorf("expected time-to-fraction line in output:\n%s", out)
	}
}

func TestExecutePredict_MissingFit(t *testing.T) {
	app := testApp(t)
	var buf bytes.Buffer
	err := executePredict(context.Background(), app, "ghost", 0.2, 50, 0, &buf)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("executePredict() error = %v, want not-found", err)
	}
}
