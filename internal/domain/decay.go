package domain

import (
	"fmt"
	"math"
)

// First-order exponential decay arithmetic. Published decay figures depend
// on these exact closed forms (natural log, natural exponential, IEEE
// doubles), so the formulas are kept verbatim rather than expressed through
// a generic ODE or unit layer.

// DecayConstant converts a half-life in years to the first-order decay
// constant k = ln(2)/h.
func DecayConstant(halfLife float64) (float64, error) {
	if halfLife <= 0 {
		return 0, fmt.Errorf("half-life %v: %w", halfLife, ErrNonPositiveHalfLife)
	}
	return math.Ln2 / halfLife, nil
}

// HalfLifeFromConstant is the inverse of DecayConstant: h = ln(2)/k.
func HalfLifeFromConstant(k float64) (float64, error) {
	if k <= 0 {
		return 0, fmt.Errorf("decay constant %v must be positive: %w", k, ErrNonPositiveHalfLife)
	}
	return math.Ln2 / k, nil
}

// Mass evaluates initial * exp(-k*t).
func Mass(initial, k, t float64) float64 {
	return initial * math.Exp(-k*t)
}

// TimeToFraction returns the time at which the given fraction of the initial
// mass remains: t = -ln(fraction)/k.
func TimeToFraction(k, fraction float64) (float64, error) {
	if k <= 0 {
		return 0, fmt.Errorf("decay constant %v must be positive: %w", k, ErrNonPositiveHalfLife)
	}
	if fraction <= 0 || fraction > 1 {
		return 0, fmt.Errorf("fraction %v: %w", fraction, ErrInvalidFraction)
	}
	return -math.Log(fraction) / k, nil
}

// CurvePoint is one sample of a decay curve.
type CurvePoint struct {
	Year float64
	Mass float64
}

// Curve samples mass(t) on [0, horizon] at the given step. The curve is
// derived on demand for tables and plots; nothing is persisted.
func Curve(initial, k, horizon, step float64) ([]CurvePoint, error) {
	if k <= 0 {
		return nil, fmt.Errorf("decay constant %v must be positive: %w", k, ErrNonPositiveHalfLife)
	}
	if horizon <= 0 || step <= 0 {
		return nil, fmt.Errorf("horizon and step must be positive (got horizon=%v step=%v)", horizon, step)
	}
	var points []CurvePoint
	for t := 0.0; t <= horizon+step/2; t += step {
		points = append(points, CurvePoint{Year: t, Mass: Mass(initial, k, t)})
	}
	return points, nil
}
