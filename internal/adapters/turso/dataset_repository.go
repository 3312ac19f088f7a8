package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/offsetlab/carbonkit/internal/domain"
	"github.com/offsetlab/carbonkit/internal/util"
)

// DatasetRepository stores observation tables in the datasets and
// observations tables.
type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(ctx context.Context, dataset *domain.Dataset, obs []domain.Observation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, source, created_at) VALUES (?, ?, ?, ?)`,
		dataset.ID, dataset.Name, dataset.Source, dataset.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO observations (dataset_id, position, oc_ratio, half_life_years) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare observation insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range obs {
		if _, err := stmt.ExecContext(ctx, dataset.ID, i, o.Ratio, o.HalfLife); err != nil {
			return fmt.Errorf("failed to insert observation %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}

func (r *DatasetRepository) GetByName(ctx context.Context, name string) (*domain.Dataset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT d.id, d.name, d.source, d.created_at, COUNT(o.dataset_id)
		FROM datasets d
		LEFT JOIN observations o ON o.dataset_id = d.id
		WHERE d.name = ?
		GROUP BY d.id
	`, name)

	ds, err := scanDataset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return ds, nil
}

func (r *DatasetRepository) List(ctx context.Context) ([]*domain.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.source, d.created_at, COUNT(o.dataset_id)
		FROM datasets d
		LEFT JOIN observations o ON o.dataset_id = d.id
		GROUP BY d.id
		ORDER BY d.created_at, d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*domain.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

func (r *DatasetRepository) Observations(ctx context.Context, datasetID string) ([]domain.Observation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT oc_ratio, half_life_years FROM observations WHERE dataset_id = ? ORDER BY position`,
		datasetID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}
	defer rows.Close()

	var obs []domain.Observation
	for rows.Next() {
		var o domain.Observation
		if err := rows.Scan(&o.Ratio, &o.HalfLife); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func (r *DatasetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*domain.Dataset, error) {
	var ds domain.Dataset
	var createdAt string
	if err := row.Scan(&ds.ID, &ds.Name, &ds.Source, &createdAt, &ds.Rows); err != nil {
		return nil, err
	}
	ds.CreatedAt = util.ParseTimeRFC3339(createdAt)
	return &ds, nil
}
