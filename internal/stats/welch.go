package stats

import (
	"math"

	"edustat/domain/core"
	"edustat/domain/study"

	"gonum.org/v1/gonum/stat/distuv"
)

// confidenceLevel for mean-difference intervals. The interval and the
// two-sided p-value share the same df and standard error, so the interval
// brackets zero exactly when p exceeds 1 - confidenceLevel.
const confidenceLevel = 0.95

// WelchTTest runs Welch's unequal-variance t-test of x against y and
// packages the statistic, Welch-Satterthwaite df, two-sided p-value,
// Cohen's d, Hedges' g, and the 95% CI for the mean difference into one
// immutable result. Effect size and interval are computed from the same
// two samples as the statistic.
func WelchTTest(outcome study.Outcome, x, y []float64) (study.TestResult, error) {
	if len(x) < 2 {
		return study.TestResult{}, core.NewInsufficientDataError(string(outcome)+" group 1", len(x))
	}
	if len(y) < 2 {
		return study.TestResult{}, core.NewInsufficientDataError(string(outcome)+" group 2", len(y))
	}

	n1, n2 := float64(len(x)), float64(len(y))
	m1, v1 := sampleMoments(x)
	m2, v2 := sampleMoments(y)

	se := math.Sqrt(v1/n1 + v2/n2)
	if se == 0 {
		// both samples are constant; the statistic is undefined
		return study.TestResult{}, core.NewInsufficientDataError(string(outcome)+" (zero variance in both groups)", len(x)+len(y))
	}

	t := (m1 - m2) / se
	df := welchSatterthwaiteDF(v1, v2, n1, n2)

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	d, g, err := cohensD(m1, v1, n1, m2, v2, n2)
	if err != nil {
		return study.TestResult{}, err
	}

	tcrit := dist.Quantile(0.5 + confidenceLevel/2)
	diff := m1 - m2

	return study.TestResult{
		Outcome:    outcome,
		Test:       study.TestWelchT,
		Statistic:  t,
		DF:         df,
		PValue:     p,
		EffectSize: d,
		EffectUnit: "d",
		HedgesG:    g,
		CI:         &study.Interval{Low: diff - tcrit*se, High: diff + tcrit*se},
		N1:         len(x),
		N2:         len(y),
		Mean1:      m1,
		Mean2:      m2,
	}, nil
}

// welchSatterthwaiteDF approximates the degrees of freedom for unequal
// variances: (v1/n1 + v2/n2)^2 / ((v1/n1)^2/(n1-1) + (v2/n2)^2/(n2-1))
func welchSatterthwaiteDF(v1, v2, n1, n2 float64) float64 {
	a := v1 / n1
	b := v2 / n2
	return (a + b) * (a + b) / (a*a/(n1-1) + b*b/(n2-1))
}
