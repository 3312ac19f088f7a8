// Package estimator fits the biochar half-life model: a log-linear
// regression of half-life on O:C ratio, bootstrap-resampled to obtain an
// uncertainty distribution over the fitted line. Predictions are percentile
// queries against that distribution, so conservative estimates (for example
// the 2.5th percentile used in risk framing) are a caller choice, never a
// constant baked in here.
package estimator

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/offsetlab/carbonkit/internal/domain"
)

// DefaultIterations is the conventional bootstrap sample count from the
// source publications. It is only a default; callers tune it freely.
const DefaultIterations = 10000

// Source supplies the random index draws for resampling. *math/rand/v2.Rand
// satisfies it. Injecting the source keeps Fit a pure function of its inputs
// and makes seeded runs reproducible.
type Source interface {
	IntN(n int) int
}

// NewSeededSource returns a deterministic Source for the given seed.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed))
}

// Fit runs the bootstrap: iterations times, draw len(obs) observations
// uniformly with replacement (duplicate indices expected), fit OLS of
// ln(half_life) on ratio, and record the (intercept, slope) pair.
func Fit(obs []domain.Observation, iterations int, src Source) (*domain.BootstrapFit, error) {
	if len(obs) < 2 {
		return nil, fmt.Errorf("fit: got %d observations: %w", len(obs), domain.ErrInsufficientData)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("fit: iterations must be >= 1, got %d", iterations)
	}
	if src == nil {
		return nil, fmt.Errorf("fit: random source is required")
	}
	if err := domain.ValidateObservations(obs); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	fit := &domain.BootstrapFit{
		Intercepts: make([]float64, iterations),
		Slopes:     make([]float64, iterations),
	}

	if degenerate(obs) {
		return nil, fmt.Errorf("fit: all observations share the same ratio, slope is undefined: %w", domain.ErrInsufficientData)
	}

	n := len(obs)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < iterations; i++ {
		// A resample can draw a single observation n times, leaving the
		// slope undefined. Redraw until the sample spans two ratios; the
		// degenerate(obs) check above guarantees this terminates.
		for {
			for j := 0; j < n; j++ {
				o := obs[src.IntN(n)]
				xs[j] = o.Ratio
				ys[j] = math.Log(o.HalfLife)
			}
			if spansTwoRatios(xs) {
				break
			}
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		fit.Intercepts[i] = alpha
		fit.Slopes[i] = beta
	}

	return fit, nil
}

func degenerate(obs []domain.Observation) bool {
	for _, o := range obs[1:] {
		if o.Ratio != obs[0].Ratio {
			return false
		}
	}
	return true
}

func spansTwoRatios(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return true
		}
	}
	return false
}

// Predict returns the requested percentile of the empirical half-life
// distribution exp(intercept + slope*ratio) across all bootstrap samples.
// Deterministic for a fixed fit; no randomness at prediction time.
func Predict(fit *domain.BootstrapFit, ratio, percentile float64) (float64, error) {
	if fit == nil || fit.Iterations() == 0 {
		return 0, fmt.Errorf("predict: empty fit: %w", domain.ErrInsufficientData)
	}
	if ratio < 0 {
		return 0, fmt.Errorf("predict: ratio %v: %w", ratio, domain.ErrInvalidRatio)
	}

	value, err := domain.Percentile(fit.PredictedAt(ratio), percentile)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	return value, nil
}
