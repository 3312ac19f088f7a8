// Package plotting renders the figures the analyses used to produce
// inline: exponential decay curves and bootstrap-fit uncertainty bands.
// Output format follows the file extension (.png, .svg, .pdf).
package plotting

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/offsetlab/carbonkit/internal/domain"
)

// SaveDecayCurve renders mass-over-time for one decay curve.
func SaveDecayCurve(points []domain.CurvePoint, title, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("plotting: no curve points to render")
	}

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.Year
		xys[i].Y = pt.Mass
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "years"
	p.Y.Label.Text = "carbon remaining"

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("plotting: build line: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: save %s: %w", path, err)
	}
	return nil
}

// SaveFitBand renders the observations together with the median predicted
// half-life and a lower/upper percentile band over the observed ratio range.
func SaveFitBand(obs []domain.Observation, fit *domain.BootstrapFit, lower, upper float64, path string) error {
	if len(obs) == 0 || fit == nil || fit.Iterations() == 0 {
		return fmt.Errorf("plotting: need observations and a non-empty fit")
	}
	if lower > upper {
		return fmt.Errorf("plotting: lower percentile %v above upper %v", lower, upper)
	}

	minRatio, maxRatio := obs[0].Ratio, obs[0].Ratio
	scatter := make(plotter.XYs, len(obs))
	for i, o := range obs {
		scatter[i].X = o.Ratio
		scatter[i].Y = o.HalfLife
		if o.Ratio < minRatio {
			minRatio = o.Ratio
		}
		if o.Ratio > maxRatio {
			maxRatio = o.Ratio
		}
	}

	const gridPoints = 100
	step := (maxRatio - minRatio) / float64(gridPoints-1)
	median := make(plotter.XYs, gridPoints)
	low := make(plotter.XYs, gridPoints)
	high := make(plotter.XYs, gridPoints)
	for i := 0; i < gridPoints; i++ {
		ratio := minRatio + float64(i)*step
		dist := fit.PredictedAt(ratio)

		m, err := domain.Percentile(dist, 50)
		if err != nil {
			return fmt.Errorf("plotting: %w", err)
		}
		lo, err := domain.Percentile(dist, lower)
		if err != nil {
			return fmt.Errorf("plotting: %w", err)
		}
		hi, err := domain.Percentile(dist, upper)
		if err != nil {
			return fmt.Errorf("plotting: %w", err)
		}

		median[i] = plotter.XY{X: ratio, Y: m}
		low[i] = plotter.XY{X: ratio, Y: lo}
		high[i] = plotter.XY{X: ratio, Y: hi}
	}

	p := plot.New()
	p.Title.Text = "Biochar half-life vs O:C ratio"
	p.X.Label.Text = "O:C ratio"
	p.Y.Label.Text = "half-life (years)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	points, err := plotter.NewScatter(scatter)
	if err != nil {
		return fmt.Errorf("plotting: build scatter: %w", err)
	}
	points.Color = plotutil.Color(3)
	p.Add(points)
	p.Legend.Add("observations", points)

	for i, series := range []struct {
		name string
		xys  plotter.XYs
	}{
		{"median", median},
		{fmt.Sprintf("p%g", lower), low},
		{fmt.Sprintf("p%g", upper), high},
	} {
		line, err := plotter.NewLine(series.xys)
		if err != nil {
			return fmt.Errorf("plotting: build %s line: %w", series.name, err)
		}
		line.Color = plotutil.Color(i)
		if i > 0 {
			line.Dashes = plotutil.Dashes(1)
		}
		p.Add(line)
		p.Legend.Add(series.name, line)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: save %s: %w", path, err)
	}
	return nil
}

// SaveTonYearSeries renders the discounted baseline and scenario curves of a
// ton-year assessment.
func SaveTonYearSeries(baseline, scenario []float64, title, path string) error {
	if len(baseline) == 0 || len(scenario) == 0 {
		return fmt.Errorf("plotting: need baseline and scenario series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "years"
	p.Y.Label.Text = "atmospheric impact (tons)"

	for i, series := range []struct {
		name   string
		values []float64
	}{
		{"baseline", baseline},
		{"scenario", scenario},
	} {
		xys := make(plotter.XYs, len(series.values))
		for j, v := range series.values {
			xys[j] = plotter.XY{X: float64(j), Y: v}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("plotting: build %s line: %w", series.name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(series.name, line)
	}
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plotting: save %s: %w", path, err)
	}
	return nil
}
