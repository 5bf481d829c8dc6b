package stats

import (
	"math"

	"edustat/domain/core"
	"edustat/domain/study"

	"gonum.org/v1/gonum/stat/distuv"
)

// PairedTTest runs the paired-samples t-test of each student's post-test
// score against their own pre-test score within one group. It answers
// whether the group improved at all, independent of the between-group
// comparison. pre and post must be aligned by student.
func PairedTTest(pre, post []float64) (study.TestResult, error) {
	if len(pre) != len(post) {
		return study.TestResult{}, core.NewValidationError("paired samples", "pre and post must have equal length")
	}
	if len(pre) < 2 {
		return study.TestResult{}, core.NewInsufficientDataError("paired pre/post", len(pre))
	}

	diffs := make([]float64, len(pre))
	for i := range pre {
		diffs[i] = post[i] - pre[i]
	}

	md, vd := sampleMoments(diffs)
	n := float64(len(diffs))
	se := math.Sqrt(vd / n)
	if se == 0 {
		return study.TestResult{}, core.NewInsufficientDataError("paired pre/post (constant differences)", len(diffs))
	}

	t := md / se
	df := n - 1
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))

	// standardized mean gain: mean difference over the sd of differences
	d := md / math.Sqrt(vd)

	mPre, _ := sampleMoments(pre)
	mPost, _ := sampleMoments(post)

	tcrit := dist.Quantile(0.5 + confidenceLevel/2)

	return study.TestResult{
		Outcome:    study.OutcomeImprovement,
		Test:       study.TestPairedT,
		Statistic:  t,
		DF:         df,
		PValue:     p,
		EffectSize: d,
		EffectUnit: "d",
		CI:         &study.Interval{Low: md - tcrit*se, High: md + tcrit*se},
		N1:         len(post),
		N2:         len(pre),
		Mean1:      mPost,
		Mean2:      mPre,
	}, nil
}
