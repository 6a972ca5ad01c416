package comparer

import (
	"math"
	"testing"

	"github.com/swdee/go-facepipe/result"
)

func TestCosine(t *testing.T) {

	tests := []struct {
		name     string
		a, b     []float64
		wantSim  float64
		wantSame bool
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1, true},
		{"scaled", []float64{1, 0}, []float64{5, 0}, 1, true},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0, false},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1, false},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0, false},
		{"missing", nil, []float64{1}, 0, false},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0, false},
	}

	c := DefaultCosine()

	for _, tc := range tests {
		a := result.Face{Embedding: tc.a}
		b := result.Face{Embedding: tc.b}

		if got := c.Similarity(a, b); math.Abs(got-tc.wantSim) > 1e-9 {
			t.Errorf("%s: expected similarity %f, got %f", tc.name, tc.wantSim, got)
		}

		if got := c.IsSame(a, b); got != tc.wantSame {
			t.Errorf("%s: expected same=%t, got %t", tc.name, tc.wantSame, got)
		}
	}
}
