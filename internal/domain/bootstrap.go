package domain

import (
	"fmt"
	"math"
	"sort"
)

// BootstrapFit holds the empirical distribution of log-linear regression
// coefficients produced by bootstrap resampling: one (intercept, slope) pair
// per iteration, in iteration order. The two slices are always the same
// length and are read-only after construction.
type BootstrapFit struct {
	Intercepts []float64
	Slopes     []float64
}

// Iterations returns the number of bootstrap samples in the fit.
func (f *BootstrapFit) Iterations() int {
	return len(f.Intercepts)
}

// PredictedAt evaluates exp(intercept + slope*ratio) for every bootstrap
// sample, forming the empirical distribution of predicted half-lives at the
// given O:C ratio. The returned slice is freshly allocated.
func (f *BootstrapFit) PredictedAt(ratio float64) []float64 {
	out := make([]float64, len(f.Intercepts))
	for i := range f.Intercepts {
		out[i] = math.Exp(f.Intercepts[i] + f.Slopes[i]*ratio)
	}
	return out
}

// Percentile returns the p-th percentile (p in [0, 100]) of values using
// linear interpolation between order statistics. p=0 and p=100 return the
// minimum and maximum exactly. These are the same semantics the published
// reference figures were produced with, which is why this is not delegated
// to a quantile routine with different interpolation rules.
func Percentile(values []float64, p float64) (float64, error) {
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %v: %w", p, ErrInvalidPercentile)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("percentile of empty distribution: %w", ErrInsufficientData)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0], nil
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}
