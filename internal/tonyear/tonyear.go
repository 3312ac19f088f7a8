// Package tonyear implements ton-year carbon accounting: given a baseline
// atmospheric-impact curve for one ton of CO2 (usually an IRF), it quantifies
// the benefit of delaying that emission under the Moura-Costa, IPCC, and
// Lashof methods, and the number of delayed tons equivalent to one
// permanent avoided emission.
package tonyear

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/integrate"
)

// Accounting methods.
const (
	MethodMouraCosta = "mc"
	MethodIPCC       = "ipcc"
	MethodLashof     = "lashof"
)

// Params configures one ton-year assessment.
type Params struct {
	// Method is one of mc | ipcc | lashof.
	Method string `json:"method"`

	// Baseline is the undiscounted atmospheric-impact curve for one ton
	// emitted at year 0, one value per year. Must cover TimeHorizon.
	Baseline []float64 `json:"-"`

	// TimeHorizon is the accounting horizon in years (> 0).
	TimeHorizon int `json:"time_horizon"`

	// Delay is how many years the emission is postponed (>= 0).
	Delay int `json:"delay"`

	// DiscountRate is the annual discount rate applied to future ton-years.
	DiscountRate float64 `json:"discount_rate"`
}

// Assessment is the result of one ton-year calculation. Baseline and
// Scenario are the discounted per-year series the integrals were taken over.
type Assessment struct {
	Params            Params    `json:"parameters"`
	Baseline          []float64 `json:"baseline"`
	Scenario          []float64 `json:"scenario"`
	BaselineAtmImpact float64   `json:"baseline_atm_impact"`
	Benefit           float64   `json:"benefit"`

	// NumForEquivalence is BaselineAtmImpact / Benefit; +Inf when the
	// scenario yields no benefit.
	NumForEquivalence float64 `json:"num_for_equivalence"`
}

// Discount applies per-year discounting: series[i] / (1+rate)^i.
func Discount(rate float64, series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = v / math.Pow(1+rate, float64(i))
	}
	return out
}

// Calculate runs one ton-year assessment.
func Calculate(p Params) (*Assessment, error) {
	if p.Delay < 0 {
		return nil, fmt.Errorf("delay cannot be negative (got %d)", p.Delay)
	}
	if p.TimeHorizon <= 0 {
		return nil, fmt.Errorf("time horizon must be greater than zero (got %d)", p.TimeHorizon)
	}
	if len(p.Baseline) < p.TimeHorizon {
		return nil, fmt.Errorf("time horizon %d exceeds the %d-year baseline scenario", p.TimeHorizon, len(p.Baseline))
	}

	baseline := p.Baseline[:min(len(p.Baseline), p.TimeHorizon+1)]
	baselineDiscounted := Discount(p.DiscountRate, baseline)
	baselineAtmImpact := trapz(baselineDiscounted)

	var scenario []float64
	var benefit float64

	switch p.Method {
	case MethodMouraCosta:
		// Sequestration scenario: one ton held out of the atmosphere for
		// the delay period, nothing after.
		scenario = make([]float64, p.Delay+1+max(0, p.TimeHorizon-p.Delay))
		for i := 0; i <= p.Delay; i++ {
			scenario[i] = -1
		}
		scenario = Discount(p.DiscountRate, scenario)
		benefit = -trapz(scenario[:p.Delay+1])

	case MethodIPCC:
		// Emission shifted by the delay; benefit is the impact avoided
		// inside the horizon.
		scenario = append(make([]float64, p.Delay), baseline...)
		scenario = scenario[:min(len(scenario), p.TimeHorizon+1)]
		scenario = Discount(p.DiscountRate, scenario)
		tail := 0.0
		if p.Delay < len(scenario) {
			tail = trapz(scenario[p.Delay:])
		}
		benefit = baselineAtmImpact - tail

	case MethodLashof:
		// Emission shifted by the delay; benefit is the impact pushed
		// beyond the horizon.
		scenario = append(make([]float64, p.Delay), baseline...)
		scenario = Discount(p.DiscountRate, scenario)
		if p.TimeHorizon < p.Delay {
			benefit = trapz(scenario[p.Delay:])
		} else {
			benefit = trapz(scenario[p.TimeHorizon:])
		}

	default:
		return nil, fmt.Errorf("no ton-year accounting method called %q (options: %s, %s, %s)",
			p.Method, MethodMouraCosta, MethodIPCC, MethodLashof)
	}

	num := math.Inf(1)
	if benefit != 0 {
		num = baselineAtmImpact / benefit
	}

	return &Assessment{
		Params:            p,
		Baseline:          baselineDiscounted,
		Scenario:          scenario,
		BaselineAtmImpact: baselineAtmImpact,
		Benefit:           benefit,
		NumForEquivalence: num,
	}, nil
}

// WriteReport prints the human-readable benefit report.
func (a *Assessment) WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Method:\t%s\n", a.Params.Method)
	fmt.Fprintf(tw, "Discount rate:\t%.1f%%\n", a.Params.DiscountRate*100)
	fmt.Fprintf(tw, "Delay:\t%d year(s)\n", a.Params.Delay)
	fmt.Fprintf(tw, "Time horizon:\t%d year(s)\n", a.Params.TimeHorizon)
	fmt.Fprintf(tw, "Baseline atmospheric cost:\t%.2f ton-years\n", a.BaselineAtmImpact)
	fmt.Fprintf(tw, "Benefit from 1 tCO2 with delay:\t%.2f ton-years\n", a.Benefit)
	if math.IsInf(a.NumForEquivalence, 1) {
		fmt.Fprintf(tw, "Number needed for equivalence:\tn/a (no benefit)\n")
	} else {
		fmt.Fprintf(tw, "Number needed for equivalence:\t%.1f\n", a.NumForEquivalence)
	}
	return tw.Flush()
}

// MarshalJSON renders a non-finite NumForEquivalence as null, since JSON has
// no Infinity literal.
func (a *Assessment) MarshalJSON() ([]byte, error) {
	type alias Assessment
	shadow := struct {
		*alias
		NumForEquivalence *float64 `json:"num_for_equivalence"`
	}{alias: (*alias)(a)}
	if !math.IsInf(a.NumForEquivalence, 0) && !math.IsNaN(a.NumForEquivalence) {
		shadow.NumForEquivalence = &a.NumForEquivalence
	}
	return json.Marshal(shadow)
}

// trapz integrates a unit-spaced series with the trapezoidal rule.
func trapz(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	return integrate.Trapezoidal(xs, series)
}
