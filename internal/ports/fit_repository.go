package ports

import (
	"context"

	"github.com/offsetlab/carbonkit/internal/domain"
)

// FitRepository persists bootstrap fits so a fit computed once can be
// queried later at any ratio/percentile without re-running the bootstrap.
type FitRepository interface {
	// Create stores the fit metadata and all sample pairs in one transaction.
	Create(ctx context.Context, record *domain.FitRecord, fit *domain.BootstrapFit) error
	// GetByRef resolves a fit by ID or, failing that, by name.
	// Returns nil, nil when nothing matches.
	GetByRef(ctx context.Context, ref string) (*domain.FitRecord, error)
	// Samples loads the (intercept, slope) pairs in iteration order.
	Samples(ctx context.Context, fitID string) (*domain.BootstrapFit, error)
	List(ctx context.Context) ([]*domain.FitRecord, error)
	Delete(ctx context.Context, id string) error
}
