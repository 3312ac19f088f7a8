package tonyear

import (
	"fmt"
	"math"
)

// irfHorizon is the number of years the published IRF parameterizations are
// evaluated over (inclusive of year 0).
const irfHorizon = 1000

// Curve names accepted by IRF.
const (
	CurveJoos2013 = "joos_2013"
	CurveIPCC2007 = "ipcc_2007"
	CurveIPCC2000 = "ipcc_2000"
)

// irfParams holds the coefficients of a published multi-exponential impulse
// response function: IRF(t) = a0 + sum_i a_i * exp(-t/tau_i).
type irfParams struct {
	a   []float64
	tau []float64
}

var irfCurves = map[string]irfParams{
	// Joos et al. 2013, Table 5.
	CurveJoos2013: {
		a:   []float64{0.2173, 0.2240, 0.2824, 0.2763},
		tau: []float64{0, 394.4, 36.54, 4.304},
	},
	// IPCC AR4 2007, page 213.
	CurveIPCC2007: {
		a:   []float64{0.217, 0.259, 0.338, 0.186},
		tau: []float64{0, 172.9, 18.51, 1.186},
	},
	// IPCC Special Report 2000, chapter 2 footnote 4.
	CurveIPCC2000: {
		a:   []float64{0.175602, 0.137467, 0.18576, 0.242302, 0.258868},
		tau: []float64{0, 421.093, 70.5965, 21.42165, 3.41537},
	},
}

// IRF returns the impulse response function for one ton of CO2 emitted at
// t=0: the airborne fraction remaining in the atmosphere for each year 0
// through 1000, under the named parameterization.
func IRF(curve string) ([]float64, error) {
	p, ok := irfCurves[curve]
	if !ok {
		return nil, fmt.Errorf("no IRF parameters by the name %q (options: %s, %s, %s)",
			curve, CurveJoos2013, CurveIPCC2007, CurveIPCC2000)
	}

	out := make([]float64, irfHorizon+1)
	for t := range out {
		v := p.a[0]
		for i := 1; i < len(p.a); i++ {
			v += p.a[i] * math.Exp(-float64(t)/p.tau[i])
		}
		out[t] = v
	}
	return out, nil
}
