package stats

import (
	"math"
	"sort"

	"edustat/domain/core"
	"edustat/domain/study"

	"gonum.org/v1/gonum/stat/distuv"
)

// MannWhitneyU runs the two-sided Mann-Whitney U test of x against y as the
// non-parametric cross-check to Welch's t. The reported statistic is U1 for
// the first sample (so swapping the samples maps U1 to n1*n2 - U1 and leaves
// the p-value unchanged). The p-value is the asymptotic normal approximation
// with midrank tie correction and continuity correction.
func MannWhitneyU(outcome study.Outcome, x, y []float64) (study.TestResult, error) {
	if len(x) < 2 {
		return study.TestResult{}, core.NewInsufficientDataError(string(outcome)+" group 1", len(x))
	}
	if len(y) < 2 {
		return study.TestResult{}, core.NewInsufficientDataError(string(outcome)+" group 2", len(y))
	}

	n1, n2 := float64(len(x)), float64(len(y))
	combined := make([]float64, 0, len(x)+len(y))
	combined = append(combined, x...)
	combined = append(combined, y...)

	ranks, tieTerm := midranks(combined)

	r1 := 0.0
	for i := range x {
		r1 += ranks[i]
	}
	u1 := r1 - n1*(n1+1)/2

	n := n1 + n2
	mu := n1 * n2 / 2
	sigma := math.Sqrt(n1 * n2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 {
		// all observations tied; ranks carry no information
		return study.TestResult{}, core.NewInsufficientDataError(string(outcome)+" (all values tied)", len(combined))
	}

	// continuity correction: shift U half a step toward the mean
	num := u1 - mu
	switch {
	case num > 0:
		num -= 0.5
	case num < 0:
		num += 0.5
	}
	z := num / sigma

	norm := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * norm.CDF(-math.Abs(z))
	if p > 1 {
		p = 1
	}

	m1, _ := sampleMoments(x)
	m2, _ := sampleMoments(y)

	return study.TestResult{
		Outcome:    outcome,
		Test:       study.TestMannWhitney,
		Statistic:  u1,
		PValue:     p,
		EffectSize: rankBiserial(u1, n1, n2),
		EffectUnit: "r_rb",
		N1:         len(x),
		N2:         len(y),
		Mean1:      m1,
		Mean2:      m2,
	}, nil
}

// midranks assigns average ranks to tied values and accumulates the tie
// correction term sum(t^3 - t) over tie groups.
func midranks(values []float64) (ranks []float64, tieTerm float64) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks = make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		t := float64(j - i + 1)
		tieTerm += t*t*t - t
		i = j + 1
	}
	return ranks, tieTerm
}
