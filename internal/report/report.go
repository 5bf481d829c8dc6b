// Package report assembles the analysis output into a console summary, a
// Markdown document, and an HTML rendering of that document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edustat/domain/study"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// alpha is the significance level the study reports against
const alpha = 0.05

// Report carries every result of one pipeline run
type Report struct {
	RunID          string
	DatasetVersion string
	GeneratedAt    time.Time

	Summaries []study.GroupSummary
	Baseline  study.TestResult                 // Welch on pre-test: baseline equivalence
	Results   []study.TestResult               // between-group tests on post-test and improvement
	Paired    map[study.Group]study.TestResult // within-group pre vs post
	Figures   []string
}

// Text renders the console report
func (r *Report) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== DESCRIPTIVE STATISTICS (dataset %s) ===\n", r.DatasetVersion)
	for _, g := range study.Groups {
		fmt.Fprintf(&b, "\n%s group:\n", title(string(g)))
		for _, s := range r.Summaries {
			if s.Group == g {
				fmt.Fprintf(&b, "  %-12s %5.2f ± %.2f  (n=%d, median %.1f, range %.1f-%.1f)\n",
					outcomeName(s.Outcome)+":", s.Mean, s.StdDev, s.N, s.Median, s.Min, s.Max)
			}
		}
	}

	fmt.Fprintf(&b, "\n=== BASELINE EQUIVALENCE (pre-test) ===\n")
	b.WriteString(formatTest(r.Baseline))

	fmt.Fprintf(&b, "\n=== BETWEEN-GROUP TESTS ===\n")
	for _, t := range r.Results {
		b.WriteString(formatTest(t))
	}

	if len(r.Paired) > 0 {
		fmt.Fprintf(&b, "\n=== WITHIN-GROUP IMPROVEMENT (paired pre vs post) ===\n")
		for _, g := range study.Groups {
			if t, ok := r.Paired[g]; ok {
				fmt.Fprintf(&b, "%s: t(%.0f) = %.3f, p = %.4f, mean gain %.2f\n",
					title(string(g)), t.DF, t.Statistic, t.PValue, t.MeanDifference())
			}
		}
	}

	if len(r.Figures) > 0 {
		fmt.Fprintf(&b, "\nFigures: %s\n", strings.Join(r.Figures, ", "))
	}

	return b.String()
}

func formatTest(t study.TestResult) string {
	switch t.Test {
	case study.TestWelchT:
		line := fmt.Sprintf("%s (Welch): t(%.2f) = %.3f, p = %.4f, d = %.3f (g = %.3f)",
			outcomeName(t.Outcome), t.DF, t.Statistic, t.PValue, t.EffectSize, t.HedgesG)
		if t.CI != nil {
			line += fmt.Sprintf(", 95%% CI for difference (%.3f, %.3f)", t.CI.Low, t.CI.High)
		}
		return line + significanceTag(t) + "\n"
	case study.TestMannWhitney:
		return fmt.Sprintf("%s (Mann-Whitney): U = %.1f, p = %.4f, rank-biserial r = %.3f%s\n",
			outcomeName(t.Outcome), t.Statistic, t.PValue, t.EffectSize, significanceTag(t))
	default:
		return fmt.Sprintf("%s (%s): statistic = %.3f, p = %.4f\n", outcomeName(t.Outcome), t.Test, t.Statistic, t.PValue)
	}
}

func significanceTag(t study.TestResult) string {
	if t.Significant(alpha) {
		return "  [significant]"
	}
	return "  [not significant]"
}

// Markdown renders the report document
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Teaching methods comparison — analysis report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n- Dataset version: `%s`\n- Generated: %s\n\n",
		r.RunID, r.DatasetVersion, r.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Descriptive statistics\n\n")
	b.WriteString("| Group | Outcome | n | Mean | SD | Median | Min | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, s := range r.Summaries {
		fmt.Fprintf(&b, "| %s | %s | %d | %.2f | %.2f | %.1f | %.1f | %.1f |\n",
			s.Group, outcomeName(s.Outcome), s.N, s.Mean, s.StdDev, s.Median, s.Min, s.Max)
	}

	b.WriteString("\n## Baseline equivalence\n\n")
	b.WriteString(testRow(r.Baseline))

	b.WriteString("\n## Between-group comparisons\n\n")
	b.WriteString("| Outcome | Test | Statistic | df | p | Effect size | 95% CI |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, t := range r.Results {
		b.WriteString(markdownTestRow(t))
	}

	if len(r.Paired) > 0 {
		b.WriteString("\n## Within-group improvement (paired)\n\n")
		for _, g := range study.Groups {
			if t, ok := r.Paired[g]; ok {
				fmt.Fprintf(&b, "- **%s**: t(%.0f) = %.3f, p = %.4f, mean gain %.2f\n",
					g, t.DF, t.Statistic, t.PValue, t.MeanDifference())
			}
		}
	}

	if len(r.Figures) > 0 {
		b.WriteString("\n## Figures\n\n")
		for _, f := range r.Figures {
			fmt.Fprintf(&b, "![%s](%s)\n\n", filepath.Base(f), f)
		}
	}

	return b.String()
}

func testRow(t study.TestResult) string {
	return formatTest(t) // baseline section reuses the console line
}

func markdownTestRow(t study.TestResult) string {
	df := "—"
	if t.DF > 0 {
		df = fmt.Sprintf("%.2f", t.DF)
	}
	ci := "—"
	if t.CI != nil {
		ci = fmt.Sprintf("(%.3f, %.3f)", t.CI.Low, t.CI.High)
	}
	return fmt.Sprintf("| %s | %s | %.3f | %s | %.4f | %s = %.3f | %s |\n",
		outcomeName(t.Outcome), testName(t.Test), t.Statistic, df, t.PValue, t.EffectUnit, t.EffectSize, ci)
}

// WriteFiles writes report.md and report.html into dir
func (r *Report) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	md := r.Markdown()
	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(md), 0o644); err != nil {
		return err
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	rendered := markdown.ToHTML([]byte(md), p, renderer)

	return os.WriteFile(filepath.Join(dir, "report.html"), rendered, 0o644)
}

func outcomeName(o study.Outcome) string {
	switch o {
	case study.OutcomePreTest:
		return "pre-test"
	case study.OutcomePostTest:
		return "post-test"
	default:
		return "improvement"
	}
}

func testName(t study.TestKind) string {
	switch t {
	case study.TestWelchT:
		return "Welch's t"
	case study.TestMannWhitney:
		return "Mann-Whitney U"
	default:
		return string(t)
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
