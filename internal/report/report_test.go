package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edustat/domain/study"
)

func sampleReport() *Report {
	return &Report{
		RunID:          "run-test",
		DatasetVersion: "corrected",
		GeneratedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Summaries: []study.GroupSummary{
			{Group: study.GroupControl, Outcome: study.OutcomePreTest, N: 21, Mean: 4.52, StdDev: 1.81, Median: 4.5, Min: 1, Max: 8},
			{Group: study.GroupControl, Outcome: study.OutcomePostTest, N: 21, Mean: 13.33, StdDev: 6.86, Median: 13, Min: 2, Max: 24},
			{Group: study.GroupControl, Outcome: study.OutcomeImprovement, N: 21, Mean: 9.40, StdDev: 5.46, Median: 9, Min: 0, Max: 19},
			{Group: study.GroupExperimental, Outcome: study.OutcomePreTest, N: 20, Mean: 4.48, StdDev: 1.75, Median: 4.25, Min: 1.5, Max: 8},
			{Group: study.GroupExperimental, Outcome: study.OutcomePostTest, N: 20, Mean: 18.06, StdDev: 3.88, Median: 18.5, Min: 10, Max: 25},
			{Group: study.GroupExperimental, Outcome: study.OutcomeImprovement, N: 20, Mean: 14.00, StdDev: 3.13, Median: 14, Min: 8, Max: 20},
		},
		Baseline: study.TestResult{
			Outcome: study.OutcomePreTest, Test: study.TestWelchT,
			Statistic: -0.072, DF: 38.9, PValue: 0.943, EffectSize: -0.022, EffectUnit: "d",
			CI: &study.Interval{Low: -1.17, High: 1.09}, N1: 20, N2: 21,
		},
		Results: []study.TestResult{
			{
				Outcome: study.OutcomePostTest, Test: study.TestWelchT,
				Statistic: 2.734, DF: 31.90, PValue: 0.0101, EffectSize: 0.843, EffectUnit: "d", HedgesG: 0.827,
				CI: &study.Interval{Low: 1.205, High: 8.255}, N1: 20, N2: 21, Mean1: 18.06, Mean2: 13.33,
			},
			{
				Outcome: study.OutcomePostTest, Test: study.TestMannWhitney,
				Statistic: 311.5, PValue: 0.0123, EffectSize: 0.483, EffectUnit: "r_rb", N1: 20, N2: 21,
			},
		},
		Paired: map[study.Group]study.TestResult{
			study.GroupExperimental: {
				Outcome: study.OutcomeImprovement, Test: study.TestPairedT,
				Statistic: 19.98, DF: 19, PValue: 0.0000001, Mean1: 18.06, Mean2: 4.48,
			},
		},
		Figures: []string{"figures/group_means.png"},
	}
}

func TestReportText(t *testing.T) {
	text := sampleReport().Text()

	assert.Contains(t, text, "=== DESCRIPTIVE STATISTICS (dataset corrected) ===")
	assert.Contains(t, text, "Control group:")
	assert.Contains(t, text, "Experimental group:")
	assert.Contains(t, text, "=== BASELINE EQUIVALENCE (pre-test) ===")
	assert.Contains(t, text, "[not significant]")
	assert.Contains(t, text, "post-test (Welch): t(31.90) = 2.734, p = 0.0101, d = 0.843")
	assert.Contains(t, text, "95% CI for difference (1.205, 8.255)  [significant]")
	assert.Contains(t, text, "post-test (Mann-Whitney): U = 311.5")
	assert.Contains(t, text, "=== WITHIN-GROUP IMPROVEMENT (paired pre vs post) ===")
	assert.Contains(t, text, "mean gain 13.58")
	assert.Contains(t, text, "figures/group_means.png")
}

func TestReportMarkdownTables(t *testing.T) {
	md := sampleReport().Markdown()

	assert.True(t, strings.HasPrefix(md, "# Teaching methods comparison"))
	assert.Contains(t, md, "| Group | Outcome | n | Mean | SD | Median | Min | Max |")
	assert.Contains(t, md, "| control | post-test | 21 | 13.33 | 6.86 |")
	assert.Contains(t, md, "| post-test | Welch's t | 2.734 | 31.90 | 0.0101 | d = 0.843 | (1.205, 8.255) |")
	assert.Contains(t, md, "| post-test | Mann-Whitney U | 311.500 |")
	assert.Contains(t, md, "![group_means.png](figures/group_means.png)")
}

func TestReportWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "report")
	require.NoError(t, sampleReport().WriteFiles(dir))

	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Between-group comparisons")

	htmlOut, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(htmlOut), "<table>")
	assert.Contains(t, string(htmlOut), "</html>")
}
