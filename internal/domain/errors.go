package domain

import "errors"

// Sentinel errors returned by estimator and decay computations. Callers
// match them with errors.Is after unwrapping.
var (
	// ErrInsufficientData is returned when fewer than two observations are
	// supplied to a fit — a line cannot be determined.
	ErrInsufficientData = errors.New("at least 2 observations are required to fit a line")

	// ErrInvalidPercentile is returned for percentiles outside [0, 100].
	ErrInvalidPercentile = errors.New("percentile must be in [0, 100]")

	// ErrInvalidRatio is returned for negative O:C ratios. Ratios above 1
	// are accepted (extrapolation) but flagged at the CLI boundary.
	ErrInvalidRatio = errors.New("o:c ratio must not be negative")

	// ErrNonPositiveHalfLife is returned when a half-life <= 0 would send
	// ln() out of its domain. Failing here keeps NaN out of downstream
	// decay curves.
	ErrNonPositiveHalfLife = errors.New("half-life must be positive")

	// ErrInvalidFraction is returned when a remaining-mass fraction is
	// outside (0, 1].
	ErrInvalidFraction = errors.New("fraction remaining must be in (0, 1]")
)
