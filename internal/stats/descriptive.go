// Package stats implements the numerical core of the analysis pipeline:
// descriptive statistics, two-sample hypothesis tests, and effect sizes.
// Every function is pure over its input samples; results are built once and
// never mutated.
package stats

import (
	"edustat/domain/core"
	"edustat/domain/study"

	"github.com/montanaflynn/stats"
)

// Describe computes the descriptives for one group x outcome cell.
// Sample statistics use the n-1 denominator; n < 2 is rejected because the
// sample variance is undefined there.
func Describe(group study.Group, outcome study.Outcome, values []float64) (study.GroupSummary, error) {
	if len(values) < 2 {
		return study.GroupSummary{}, core.NewInsufficientDataError(
			string(group)+" "+string(outcome), len(values))
	}

	mean, _ := stats.Mean(values)
	sd, _ := stats.StandardDeviationSample(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	median, _ := stats.Median(values)

	return study.GroupSummary{
		Group:   group,
		Outcome: outcome,
		N:       len(values),
		Mean:    mean,
		StdDev:  sd,
		Min:     min,
		Max:     max,
		Median:  median,
	}, nil
}

// DescribeCohort computes the full descriptives table, one summary per
// group x outcome in canonical order.
func DescribeCohort(cohort study.Cohort) ([]study.GroupSummary, error) {
	out := make([]study.GroupSummary, 0, len(study.Groups)*len(study.Outcomes))
	for _, g := range study.Groups {
		for _, o := range study.Outcomes {
			s, err := Describe(g, o, cohort.Values(g, o))
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
	}
	return out, nil
}

func sampleMoments(values []float64) (mean, variance float64) {
	mean, _ = stats.Mean(values)
	variance, _ = stats.SampleVariance(values)
	return mean, variance
}
