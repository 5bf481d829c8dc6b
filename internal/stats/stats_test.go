package stats

import (
	"math"
	"testing"
)

// exactSample builds n values whose sample mean and sample standard
// deviation (n-1 denominator) equal the given targets exactly: a centered
// +/-1 pattern rescaled to unit sample sd, then shifted and stretched.
// Lets tests drive the estimators with published summary statistics.
func exactSample(t *testing.T, n int, mean, sd float64) []float64 {
	t.Helper()
	if n < 3 {
		t.Fatalf("exactSample needs n >= 3, got %d", n)
	}

	base := make([]float64, n)
	for i := 0; i < n/2; i++ {
		base[i] = 1
	}
	for i := n / 2; i < n-(n%2); i++ {
		base[i] = -1
	}
	// trailing zero when n is odd

	var sum float64
	for _, v := range base {
		sum += v
	}
	m := sum / float64(n)

	var ss float64
	for i := range base {
		base[i] -= m
		ss += base[i] * base[i]
	}
	s := math.Sqrt(ss / float64(n-1))

	out := make([]float64, n)
	for i, v := range base {
		out[i] = mean + sd*v/s
	}
	return out
}

func approxEqual(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.6f, want %.6f (tolerance %g)", name, got, want, tol)
	}
}
