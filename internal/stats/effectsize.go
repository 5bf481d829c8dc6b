package stats

import (
	"math"

	"edustat/domain/core"
)

// cohensD computes Cohen's d with the pooled standard deviation
//
//	pooled = sqrt(((n1-1)v1 + (n2-1)v2) / (n1+n2-2))
//
// and Hedges' g, the small-sample bias correction d * (1 - 3/(4N - 9)).
func cohensD(m1, v1, n1, m2, v2, n2 float64) (d, g float64, err error) {
	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooled == 0 {
		return 0, 0, core.NewInsufficientDataError("effect size (zero pooled variance)", int(n1+n2))
	}
	d = (m1 - m2) / pooled
	g = d * (1 - 3/(4*(n1+n2)-9))
	return d, g, nil
}

// rankBiserial converts a Mann-Whitney U statistic into the rank-biserial
// correlation r = 2U1/(n1 n2) - 1, the U test's standardized effect size.
func rankBiserial(u1, n1, n2 float64) float64 {
	return 2*u1/(n1*n2) - 1
}
