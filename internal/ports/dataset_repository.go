package ports

import (
	"context"

	"github.com/offsetlab/carbonkit/internal/domain"
)

// DatasetRepository persists observation tables.
type DatasetRepository interface {
	// Create stores the dataset and its rows in one transaction.
	Create(ctx context.Context, dataset *domain.Dataset, obs []domain.Observation) error
	// GetByName returns nil, nil when no dataset has that name.
	GetByName(ctx context.Context, name string) (*domain.Dataset, error)
	List(ctx context.Context) ([]*domain.Dataset, error)
	// Observations loads the rows of a dataset in insertion order.
	Observations(ctx context.Context, datasetID string) ([]domain.Observation, error)
	Delete(ctx context.Context, id string) error
}
