package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edustat/domain/core"
	"edustat/domain/study"
)

func TestMannWhitneyUTiedObservations(t *testing.T) {
	x := []float64{1.0, 2.5, 3.0, 4.0, 5.5, 6.0, 7.25, 8.0}
	y := []float64{2.0, 2.5, 4.5, 5.5, 6.5, 9.0, 10.0}

	res, err := MannWhitneyU(study.OutcomePostTest, x, y)
	require.NoError(t, err)

	approxEqual(t, "U1", res.Statistic, 23, 1e-9)
	approxEqual(t, "p", res.PValue, 0.60187487, 1e-6)
	assert.Equal(t, study.TestMannWhitney, res.Test)
	assert.Equal(t, "r_rb", res.EffectUnit)
	assert.False(t, res.Significant(0.05))
}

func TestMannWhitneyUSwapComplementsU(t *testing.T) {
	x := []float64{1.0, 2.5, 3.0, 4.0, 5.5, 6.0, 7.25, 8.0}
	y := []float64{2.0, 2.5, 4.5, 5.5, 6.5, 9.0, 10.0}

	fwd, err := MannWhitneyU(study.OutcomePostTest, x, y)
	require.NoError(t, err)
	rev, err := MannWhitneyU(study.OutcomePostTest, y, x)
	require.NoError(t, err)

	// U1 + U2 = n1 * n2 and the two-sided p-value is direction-free.
	n1n2 := float64(len(x) * len(y))
	assert.InDelta(t, n1n2, fwd.Statistic+rev.Statistic, 1e-9)
	approxEqual(t, "U2", rev.Statistic, 33, 1e-9)
	assert.InDelta(t, fwd.PValue, rev.PValue, 1e-10)
	assert.InDelta(t, -fwd.EffectSize, rev.EffectSize, 1e-10)
}

func TestMannWhitneyUFullSeparation(t *testing.T) {
	a := []float64{18.0, 19.5, 17.0, 20.0, 16.5, 21.0, 18.5, 19.0}
	b := []float64{12.0, 11.5, 13.0, 10.0, 14.5, 9.0, 12.5, 11.0}

	res, err := MannWhitneyU(study.OutcomePostTest, a, b)
	require.NoError(t, err)

	// every a exceeds every b, so U1 = n1*n2 and r_rb hits its maximum
	approxEqual(t, "U1", res.Statistic, 64, 1e-9)
	approxEqual(t, "p", res.PValue, 0.00093911, 1e-7)
	approxEqual(t, "r_rb", res.EffectSize, 1.0, 1e-9)
	assert.True(t, res.Significant(0.05))
}

func TestMannWhitneyUAllTied(t *testing.T) {
	_, err := MannWhitneyU(study.OutcomePostTest, []float64{4, 4, 4}, []float64{4, 4})
	if !core.IsInsufficientDataError(err) {
		t.Fatalf("expected insufficient data error, got %v", err)
	}
}

func TestMannWhitneyUTooFewObservations(t *testing.T) {
	_, err := MannWhitneyU(study.OutcomePostTest, []float64{}, []float64{1, 2, 3})
	if !core.IsInsufficientDataError(err) {
		t.Fatalf("expected insufficient data error, got %v", err)
	}
}

func TestMidranks(t *testing.T) {
	ranks, tieTerm := midranks([]float64{3, 1, 3, 2, 3})
	assert.Equal(t, []float64{4, 1, 4, 2, 4}, ranks)
	// one tie group of size 3: 3^3 - 3 = 24
	assert.InDelta(t, 24.0, tieTerm, 1e-12)
}
