package turso

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/offsetlab/carbonkit/internal/domain"
	"github.com/offsetlab/carbonkit/internal/util"
)

// FitRepository stores bootstrap fits: one fits row per run plus a
// fit_samples row per bootstrap iteration.
type FitRepository struct {
	db *sql.DB
}

func NewFitRepository(db *sql.DB) *FitRepository {
	return &FitRepository{db: db}
}

func (r *FitRepository) Create(ctx context.Context, record *domain.FitRecord, fit *domain.BootstrapFit) error {
	if fit.Iterations() != record.Iterations {
		return fmt.Errorf("fit holds %d samples but record declares %d iterations", fit.Iterations(), record.Iterations)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var seed sql.NullInt64
	if record.Seed != nil {
		seed = sql.NullInt64{Int64: *record.Seed, Valid: true}
	}

	// Fits run straight from a file or URL have no dataset row to reference.
	datasetID := sql.NullString{String: record.DatasetID, Valid: record.DatasetID != ""}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO fits (id, dataset_id, name, iterations, seed, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, datasetID, record.Name, record.Iterations, seed, record.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fit: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO fit_samples (fit_id, position, intercept, slope) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for i := range fit.Intercepts {
		if _, err := stmt.ExecContext(ctx, record.ID, i, fit.Intercepts[i], fit.Slopes[i]); err != nil {
			return fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *FitRepository) GetByRef(ctx context.Context, ref string) (*domain.FitRecord, error) {
	record, err := r.getBy(ctx, "id", ref)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	return r.getBy(ctx, "name", ref)
}

func (r *FitRepository) getBy(ctx context.Context, column, value string) (*domain.FitRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, dataset_id, name, iterations, seed, created_at FROM fits WHERE `+column+` = ? ORDER BY created_at DESC LIMIT 1`,
		value,
	)

	record, err := scanFit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fit by %s: %w", column, err)
	}
	return record, nil
}

func (r *FitRepository) Samples(ctx context.Context, fitID string) (*domain.BootstrapFit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT intercept, slope FROM fit_samples WHERE fit_id = ? ORDER BY position`,
		fitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load fit samples: %w", err)
	}
	defer rows.Close()

	fit := &domain.BootstrapFit{}
	for rows.Next() {
		var intercept, slope float64
		if err := rows.Scan(&intercept, &slope); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		fit.Intercepts = append(fit.Intercepts, intercept)
		fit.Slopes = append(fit.Slopes, slope)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if fit.Iterations() == 0 {
		return nil, fmt.Errorf("fit %s has no samples: %w", fitID, domain.ErrInsufficientData)
	}
	return fit, nil
}

func (r *FitRepository) List(ctx context.Context) ([]*domain.FitRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, dataset_id, name, iterations, seed, created_at FROM fits ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fits: %w", err)
	}
	defer rows.Close()

	var records []*domain.FitRecord
	for rows.Next() {
		record, err := scanFit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fit: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *FitRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM fits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete fit: %w", err)
	}
	return nil
}

func scanFit(row rowScanner) (*domain.FitRecord, error) {
	var record domain.FitRecord
	var datasetID sql.NullString
	var seed sql.NullInt64
	var createdAt string
	if err := row.Scan(&record.ID, &datasetID, &record.Name, &record.Iterations, &seed, &createdAt); err != nil {
		return nil, err
	}
	record.DatasetID = datasetID.String
	if seed.Valid {
		record.Seed = &seed.Int64
	}
	record.CreatedAt = util.ParseTimeRFC3339(createdAt)
	return &record, nil
}
