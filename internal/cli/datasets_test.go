package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestExecuteDatasetsImport(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	path := writeTempCSV(t, noiselessCSV)

	var buf bytes.Buffer
	if err := executeDatasetsImport(ctx, app, path, "incubations", &buf); err != nil {
		t.Fatalf("executeDatasetsImport() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Imported 4 observation(s)") {
		t.Errorf("unexpected import output: %s", buf.String())
	}

	ds, err := app.DatasetRepo.GetByName(ctx, "incubations")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if ds == nil {
		t.Fatal("imported dataset not found")
	}
	if ds.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero, want the import time")
	}

	// Importing under the same name again must fail before touching the DB.
	buf.Reset()
	err = executeDatasetsImport(ctx, app, path, "incubations", &buf)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate import error = %v, want already-exists", err)
	}
}

func TestExecuteDatasetsListShowDelete(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	var buf bytes.Buffer
	if err := executeDatasetsList(ctx, app, &buf); err != nil {
		t.Fatalf("executeDatasetsList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No datasets saved yet") {
		t.Errorf("expected empty-list message, got: %s", buf.String())
	}

	seedDataset(t, app, "incubations")

	buf.Reset()
	if err := executeDatasetsList(ctx, app, &buf); err != nil {
		t.Fatalf("executeDatasetsList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "incubations") {
		t.Errorf("list missing dataset name: %s", buf.String())
	}

	buf.Reset()
	if err := executeDatasetsShow(ctx, app, "incubations", &buf); err != nil {
		t.Fatalf("executeDatasetsShow() error = %v", err)
	}
	for _, want := range []string{"RATIO", "0.100", "100.000"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := executeDatasetsDelete(ctx, app, "incubations", &buf); err != nil {
		t.Fatalf("executeDatasetsDelete() error = %v", err)
	}
	ds, err := app.DatasetRepo.GetByName(ctx, "incubations")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if ds != nil {
		t.Error("dataset still present after delete")
	}
}

func TestExecuteDatasetsShow_Missing(t *testing.T) {
	app := testApp(t)
	var buf bytes.Buffer
	err := executeDatasetsShow(context.Background(), app, "ghost", &buf)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("executeDatasetsShow() error = %v, want not-found", err)
	}
}

func TestExecuteFitsListShowDelete(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	seedDataset(t, app, "incubations")
	seed := int64(11)

	var buf bytes.Buffer
	if err := executeFitsList(ctx, app, &buf); err != nil {
		t.Fatalf("executeFitsList() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No fits saved yet") {
		t.Errorf("expected empty-list message, got: %s", buf.String())
	}

	fitOpts := fitOptions{
		dataset:    "incubations",
		iterations: 50,
		seed:       &seed,
		save:       true,
		name:       "base",
		lower:      2.5,
		upper:      97.5,
	}
	buf.Reset()
	if err := executeFit(ctx, app, fitOpts, &buf); err != nil {
		t.Fatalf("executeFit() error = %v", err)
	}

	buf.Reset()
	if err := executeFitsList(ctx, app, &buf); err != nil {
		t.Fatalf("executeFitsList() error = %v", err)
	}
	for _, want := range []string{"base", "11"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("fits list missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := executeFitsShow(ctx, app, "base", &buf); err != nil {
		t.Fatalf("executeFitsShow() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Median model:") {
		t.Errorf("fits show missing median model:\n%s", buf.String())
	}

	buf.Reset()
	if err := executeFitsDelete(ctx, app, "base", &buf); err != nil {
		t.Fatalf("executeFitsDelete() error = %v", err)
	}
	record, err := app.FitRepo.GetByRef(ctx, "base")
	if err != nil {
		t.Fatalf("GetByRef() error = %v", err)
	}
	if record != nil {
		t.Error("fit still present after delete")
	}
}
