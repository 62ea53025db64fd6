package agent

import (
	"math"
	"testing"
)

func TestPopulationVariance(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{4}, 0},
		{"uniform", []float64{2, 2, 2, 2}, 0},
		{"spread", []float64{1, 2, 3, 4}, 1.25},
		{"two points", []float64{0, 10}, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := populationVariance(tc.in)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("variance(%v) = %g, want %g", tc.in, got, tc.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(0.5, 1, 2); got != 1 {
		t.Fatalf("clamp below: got %g", got)
	}
	if got := clamp(3, 1, 2); got != 2 {
		t.Fatalf("clamp above: got %g", got)
	}
	if got := clamp(1.5, 1, 2); got != 1.5 {
		t.Fatalf("clamp inside: got %g", got)
	}
}
