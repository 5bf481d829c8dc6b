// Package plot renders the study's comparison figures. It is read-only with
// respect to the data model: every figure is drawn from group summaries and
// raw per-student values computed elsewhere; no statistics are derived here.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"edustat/domain/study"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	controlColor      = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	experimentalColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// Renderer writes the study figures into a directory
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer, ensuring the output directory exists
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating figures directory: %w", err)
	}
	return &Renderer{dir: dir}, nil
}

// RenderAll draws the full figure set and returns the files written
func (r *Renderer) RenderAll(cohort study.Cohort, summaries []study.GroupSummary) ([]string, error) {
	var files []string

	for _, o := range []study.Outcome{study.OutcomePostTest, study.OutcomeImprovement} {
		f, err := r.MeansBarChart(o, summaries)
		if err != nil {
			return nil, err
		}
		files = append(files, f)

		f, err = r.BoxPlot(o, cohort)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	f, err := r.PreTestDistributions(summaries)
	if err != nil {
		return nil, err
	}
	files = append(files, f)

	return files, nil
}

// MeansBarChart draws the two group means for one outcome as bars with
// one-standard-deviation error bars.
func (r *Renderer) MeansBarChart(outcome study.Outcome, summaries []study.GroupSummary) (string, error) {
	ctrl, exp, err := pickSummaries(outcome, summaries)
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mean %s by group", outcomeLabel(outcome))
	p.Y.Label.Text = "Score"

	bars, err := plotter.NewBarChart(plotter.Values{ctrl.Mean, exp.Mean}, vg.Points(40))
	if err != nil {
		return "", err
	}
	bars.LineStyle.Width = 0
	bars.Color = controlColor
	p.Add(bars)

	errs, err := plotter.NewYErrorBars(meansWithErrors{
		XYs: plotter.XYs{{X: 0, Y: ctrl.Mean}, {X: 1, Y: exp.Mean}},
		YErrors: plotter.YErrors{
			{Low: ctrl.StdDev, High: ctrl.StdDev},
			{Low: exp.StdDev, High: exp.StdDev},
		},
	})
	if err != nil {
		return "", err
	}
	p.Add(errs)

	p.NominalX(groupLabel(ctrl), groupLabel(exp))
	p.Add(plotter.NewGrid())

	path := filepath.Join(r.dir, fmt.Sprintf("means_%s.png", outcome))
	return path, p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// BoxPlot draws side-by-side box plots of one outcome per group
func (r *Renderer) BoxPlot(outcome study.Outcome, cohort study.Cohort) (string, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by group", outcomeLabel(outcome))
	p.Y.Label.Text = outcomeLabel(outcome)

	for i, g := range study.Groups {
		values := cohort.Values(g, outcome)
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), plotter.Values(values))
		if err != nil {
			return "", fmt.Errorf("box plot for %s %s: %w", g, outcome, err)
		}
		if g == study.GroupControl {
			box.FillColor = controlColor
		} else {
			box.FillColor = experimentalColor
		}
		p.Add(box)
	}

	p.NominalX("Control", "Experimental")
	p.Add(plotter.NewGrid())

	path := filepath.Join(r.dir, fmt.Sprintf("%s_comparison.png", outcome))
	return path, p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// PreTestDistributions overlays the fitted normal curves of both groups'
// pre-test scores, each scaled by its group size, to show baseline
// equivalence before instruction.
func (r *Renderer) PreTestDistributions(summaries []study.GroupSummary) (string, error) {
	ctrl, exp, err := pickSummaries(study.OutcomePreTest, summaries)
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = "Pre-test score distributions"
	p.X.Label.Text = "Pre-test score"
	p.Y.Label.Text = "Students"
	p.X.Min = study.ScoreMin - 1
	p.X.Max = study.PreScoreMax + 1

	for _, s := range []study.GroupSummary{ctrl, exp} {
		line, err := scaledNormalCurve(s, p.X.Min, p.X.Max)
		if err != nil {
			return "", err
		}
		if s.Group == study.GroupControl {
			line.Color = controlColor
		} else {
			line.Color = experimentalColor
		}
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(groupLabel(s), line)
	}

	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	path := filepath.Join(r.dir, "pre_test_distributions.png")
	return path, p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// scaledNormalCurve samples N(mean, sd) scaled by group size over [lo, hi]
func scaledNormalCurve(s study.GroupSummary, lo, hi float64) (*plotter.Line, error) {
	dist := distuv.Normal{Mu: s.Mean, Sigma: s.StdDev}
	const samples = 100
	pts := make(plotter.XYs, samples)
	for i := range pts {
		x := lo + (hi-lo)*float64(i)/(samples-1)
		pts[i] = plotter.XY{X: x, Y: dist.Prob(x) * float64(s.N)}
	}
	return plotter.NewLine(pts)
}

// meansWithErrors pairs bar positions with symmetric sd error bars
type meansWithErrors struct {
	plotter.XYs
	plotter.YErrors
}

func pickSummaries(outcome study.Outcome, summaries []study.GroupSummary) (ctrl, exp study.GroupSummary, err error) {
	var haveCtrl, haveExp bool
	for _, s := range summaries {
		if s.Outcome != outcome {
			continue
		}
		switch s.Group {
		case study.GroupControl:
			ctrl, haveCtrl = s, true
		case study.GroupExperimental:
			exp, haveExp = s, true
		}
	}
	if !haveCtrl || !haveExp {
		return ctrl, exp, fmt.Errorf("missing %s summaries for plotting", outcome)
	}
	return ctrl, exp, nil
}

func outcomeLabel(o study.Outcome) string {
	switch o {
	case study.OutcomePreTest:
		return "pre-test score"
	case study.OutcomePostTest:
		return "post-test score"
	default:
		return "improvement (post - pre)"
	}
}

func groupLabel(s study.GroupSummary) string {
	return fmt.Sprintf("%s (n=%d)", s.Group, s.N)
}
