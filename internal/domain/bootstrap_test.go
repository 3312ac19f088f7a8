package domain

import (
	"errors"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		p        float64
		expected float64
	}{
		{name: "median of odd set", values: []float64{3, 1, 2}, p: 50, expected: 2},
		{name: "median interpolates", values: []float64{1, 2, 3, 4}, p: 50, expected: 2.5},
		{name: "zero returns min", values: []float64{5, 9, 1, 7}, p: 0, expected: 1},
		{name: "hundred returns max", values: []float64{5, 9, 1, 7}, p: 100, expected: 9},
		{name: "quarter interpolates", values: []float64{0, 10}, p: 25, expected: 2.5},
		{name: "single value any percentile", values: []float64{42}, p: 73, expected: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentile(tt.values, tt.p)
			if err != nil {
				t.Fatalf("Percentile() error = %v", err)
			}
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.expected)
			}
		})
	}
}

func TestPercentile_Monotonic(t *testing.T) {
	values := []float64{12.3, 0.4, 5.5, 5.5, 99, 7.1, 0.1}

	prev := math.Inf(-1)
	for p := 0.0; p <= 100; p += 2.5 {
		got, err := Percentile(values, p)
		if err != nil {
			t.Fatalf("Percentile(%v) error = %v", p, err)
		}
		if got < prev {
			t.Fatalf("Percentile not monotonic: p=%v gave %v after %v", p, got, prev)
		}
		prev = got
	}
}

func TestPercentile_Invalid(t *testing.T) {
	for _, p := range []float64{-0.001, 100.001, 200} {
		if _, err := Percentile([]float64{1, 2}, p); !errors.Is(err, ErrInvalidPercentile) {
			t.Errorf("Percentile(p=%v) error = %v, want ErrInvalidPercentile", p, err)
		}
	}

	if _, err := Percentile(nil, 50); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Percentile(empty) error = %v, want ErrInsufficientData", err)
	}
}

func TestBootstrapFit_PredictedAt(t *testing.T) {
	fit := &BootstrapFit{
		Intercepts: []float64{0, math.Log(2)},
		Slopes:     []float64{1, 0},
	}

	got := fit.PredictedAt(1)
	want := []float64{math.E, 2}
	if len(got) != len(want) {
		t.Fatalf("PredictedAt returned %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("PredictedAt(1)[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if fit.Iterations() != 2 {
		t.Errorf("Iterations() = %d, want 2", fit.Iterations())
	}
}

func TestObservation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		obs     Observation
		wantErr error
	}{
		{name: "valid", obs: Observation{Ratio: 0.4, HalfLife: 30}, wantErr: nil},
		{name: "zero ratio ok", obs: Observation{Ratio: 0, HalfLife: 1}, wantErr: nil},
		{name: "ratio above one ok", obs: Observation{Ratio: 1.2, HalfLife: 1}, wantErr: nil},
		{name: "negative ratio", obs: Observation{Ratio: -0.1, HalfLife: 1}, wantErr: ErrInvalidRatio},
		{name: "zero half-life", obs: Observation{Ratio: 0.5, HalfLife: 0}, wantErr: ErrNonPositiveHalfLife},
		{name: "negative half-life", obs: Observation{Ratio: 0.5, HalfLife: -3}, wantErr: ErrNonPositiveHalfLife},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
