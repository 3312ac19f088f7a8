package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/offsetlab/carbonkit/internal/adapters/turso"
	"github.com/offsetlab/carbonkit/internal/domain"
)

func TestDatasetRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := turso.NewDatasetRepository(db)
	ctx := context.Background()

	obs := []domain.Observation{
		{Ratio: 0.1, HalfLife: 100},
		{Ratio: 0.2, HalfLife: 10},
		{Ratio: 0.3, HalfLife: 1},
	}
	dataset := &domain.Dataset{
		ID:        uuid.NewString(),
		Name:      "spokas-2010",
		Source:    "testdata/spokas.csv",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	if err := repo.Create(ctx, dataset, obs); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByName(ctx, "spokas-2010")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetByName() returned nil for existing dataset")
	}
	if got.ID != dataset.ID || got.Source != dataset.Source || got.Rows != len(obs) {
		t.Errorf("GetByName() = %+v, want id=%s source=%s rows=%d", got, dataset.ID, dataset.Source, len(obs))
	}
	if !got.CreatedAt.Equal(dataset.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, dataset.CreatedAt)
	}

	loaded, err := repo.Observations(ctx, dataset.ID)
	if err != nil {
		t.Fatalf("Observations() error = %v", err)
	}
	if diff := cmp.Diff(obs, loaded); diff != "" {
		t.Errorf("Observations() mismatch (-want +got):\n%s", diff)
	}
}

func TestDatasetRepository_GetByName_Missing(t *testing.T) {
	db := testDB(t)
	repo := turso.NewDatasetRepository(db)

	got, err := repo.GetByName(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetByName() = %+v, want nil", got)
	}
}

func TestDatasetRepository_DuplicateName(t *testing.T) {
	db := testDB(t)
	repo := turso.NewDatasetRepository(db)
	ctx := context.Background()

	obs := []domain.Observation{{Ratio: 0.1, HalfLife: 10}, {Ratio: 0.2, HalfLife: 5}}
	first := &domain.Dataset{ID: uuid.NewString(), Name: "dup", CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, first, obs); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := &domain.Dataset{ID: uuid.NewString(), Name: "dup", CreatedAt: time.Now().UTC()}
	if err := repo.Create(ctx, second, obs); err == nil {
		t.Error("Create() with duplicate name: expected unique constraint error")
	}
}

func TestDatasetRepository_ListAndDelete(t *testing.T) {
	db := testDB(t)
	repo := turso.NewDatasetRepository(db)
	ctx := context.Background()

	obs := []domain.Observation{{Ratio: 0.1, HalfLife: 10}, {Ratio: 0.2, HalfLife: 5}}
	names := []string{"alpha", "beta"}
	var ids []string
	for i, name := range names {
		ds := &domain.Dataset{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: time.Date(2026, 3, 1, 12, i, 0, 0, time.UTC),
		}
		if err := repo.Create(ctx, ds, obs); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
		ids = append(ids, ds.ID)
	}

	datasets, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(datasets) != 2 {
		t.Fatalf("List() returned %d datasets, want 2", len(datasets))
	}
	if datasets[0].Name != "alpha" || datasets[1].Name != "beta" {
		t.Errorf("List() order = %s, %s; want alpha, beta", datasets[0].Name, datasets[1].Name)
	}

	if err := repo.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	datasets, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(datasets) != 1 || datasets[0].Name != "beta" {
		t.Errorf("after delete, List() = %+v, want only beta", datasets)
	}

	// Cascade: rows of the deleted dataset are gone.
	leftover, err := repo.Observations(ctx, ids[0])
	if err != nil {
		t.Fatalf("Observations() error = %v", err)
	}
	if len(leftover) != 0 {
		t.Errorf("observations not cascaded on delete: %d rows remain", len(leftover))
	}
}
