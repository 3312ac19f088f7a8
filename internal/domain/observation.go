package domain

import "fmt"

// Observation is one paired measurement of biochar composition and persistence:
// the oxygen-to-carbon molar ratio of a char and its measured half-life in
// years. Observation sets are small (tens of rows) and immutable once loaded.
type Observation struct {
	Ratio    float64 // O:C molar ratio, expected in [0, 1]
	HalfLife float64 // years, must be > 0
}

// Validate checks the domain constraints on a single observation.
func (o Observation) Validate() error {
	if o.Ratio < 0 {
		return fmt.Errorf("ratio %v: %w", o.Ratio, ErrInvalidRatio)
	}
	if o.HalfLife <= 0 {
		return fmt.Errorf("half-life %v: %w", o.HalfLife, ErrNonPositiveHalfLife)
	}
	return nil
}

// ValidateObservations validates every observation, reporting the first
// offending row by its 1-based position.
func ValidateObservations(obs []Observation) error {
	for i, o := range obs {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("observation %d: %w", i+1, err)
		}
	}
	return nil
}
