// Package app wires the pipeline together: load and validate the raw
// tables, merge them into the analysis-ready cohort, compute descriptives,
// run the hypothesis tests, render figures, and write the report. Every
// step is a deterministic function of the inputs; any failure aborts the
// run with a coded error and no partial results.
package app

import (
	"fmt"
	"path/filepath"

	"edustat/adapters/table"
	"edustat/domain/core"
	"edustat/domain/run"
	"edustat/domain/study"
	"edustat/internal"
	"edustat/internal/config"
	"edustat/internal/dataset"
	"edustat/internal/errors"
	"edustat/internal/plot"
	"edustat/internal/report"
	"edustat/internal/stats"
)

// CodeVersion is stamped into run manifests; set via -ldflags at release
var CodeVersion = "dev"

// Pipeline runs the study analysis end to end
type Pipeline struct {
	cfg *config.Config
	log *internal.Logger
}

// New creates a pipeline over the given configuration
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, log: internal.DefaultLogger}
}

// Inputs holds everything loading produced: the validated tables, their
// validation summaries, and the run manifest fingerprinting the files.
type Inputs struct {
	Version   string
	Sources   dataset.Sources
	Summaries []*dataset.Summary
	Manifest  *run.Manifest
}

// Load resolves the configured dataset version, reads its files, applies
// declared column aliases, and validates every table. No repair: the first
// violation aborts the load.
func (p *Pipeline) Load() (*Inputs, error) {
	manifest, err := config.LoadManifest(p.cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	version, spec, err := manifest.Resolve(p.cfg.DatasetVersion, p.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	p.log.Info("dataset version %q (%s)", version, spec.Description)

	runManifest := run.NewManifest(version, CodeVersion)
	inputs := &Inputs{Version: version, Manifest: runManifest}

	read := func(path string) (*table.Table, error) {
		t, err := table.NewReader(path).Read()
		if err != nil {
			return nil, errors.IOError("reading "+path, err)
		}
		t.RenameColumns(spec.ColumnAliases)
		if err := fingerprint(runManifest, path, len(t.Rows)); err != nil {
			return nil, err
		}
		return t, nil
	}

	pre, err := read(spec.PreTest)
	if err != nil {
		return nil, err
	}
	postCtrl, err := read(spec.PostControl)
	if err != nil {
		return nil, err
	}
	postExp, err := read(spec.PostExperimental)
	if err != nil {
		return nil, err
	}

	inputs.Sources = dataset.Sources{
		PreTest:          pre,
		PostControl:      postCtrl,
		PostExperimental: postExp,
	}

	if spec.IdentifierMap != "" {
		idMap, err := read(spec.IdentifierMap)
		if err != nil {
			return nil, err
		}
		inputs.Sources.IdentifierMap = idMap
	}

	if err := p.validate(inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

func (p *Pipeline) validate(inputs *Inputs) error {
	checks := []struct {
		t    *table.Table
		spec dataset.TableSpec
	}{
		{inputs.Sources.PreTest, dataset.PreTestSpec()},
		{inputs.Sources.PostControl, dataset.PostTestSpec("post_test_control")},
		{inputs.Sources.PostExperimental, dataset.PostTestSpec("post_test_experimental")},
	}
	for _, c := range checks {
		summary, err := dataset.Validate(c.t, c.spec)
		if err != nil {
			return err
		}
		p.log.Info("validated %s", summary)
		inputs.Summaries = append(inputs.Summaries, summary)
	}

	if inputs.Sources.IdentifierMap != nil {
		summary, err := dataset.ValidateIdentifierMap(inputs.Sources.IdentifierMap)
		if err != nil {
			return err
		}
		p.log.Info("validated %s", summary)
		inputs.Summaries = append(inputs.Summaries, summary)
	}
	return nil
}

// Analyze merges the inputs and computes every statistic of the study
func (p *Pipeline) Analyze(inputs *Inputs) (*report.Report, error) {
	cohort, err := dataset.Merge(inputs.Sources)
	if err != nil {
		return nil, err
	}
	nCtrl, nExp := cohort.Size()
	p.log.Info("merged cohort: %d students (control %d, experimental %d)", len(cohort), nCtrl, nExp)

	summaries, err := stats.DescribeCohort(cohort)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		RunID:          inputs.Manifest.RunID.String(),
		DatasetVersion: inputs.Version,
		GeneratedAt:    inputs.Manifest.CreatedAt.Time(),
		Summaries:      summaries,
		Paired:         make(map[study.Group]study.TestResult),
	}

	// Baseline equivalence: the groups should not differ before instruction
	baseline, err := betweenGroups(stats.WelchTTest, study.OutcomePreTest, cohort)
	if err != nil {
		return nil, err
	}
	rep.Baseline = baseline

	// Primary comparisons: post-test and improvement, parametric and
	// non-parametric, always from the same pair of samples.
	for _, outcome := range []study.Outcome{study.OutcomePostTest, study.OutcomeImprovement} {
		welch, err := betweenGroups(stats.WelchTTest, outcome, cohort)
		if err != nil {
			return nil, err
		}
		mw, err := betweenGroups(stats.MannWhitneyU, outcome, cohort)
		if err != nil {
			return nil, err
		}
		rep.Results = append(rep.Results, welch, mw)
	}

	// Within-group gains
	for _, g := range study.Groups {
		sub := cohort.Subset(g)
		pre := make([]float64, len(sub))
		post := make([]float64, len(sub))
		for i, r := range sub {
			pre[i] = r.PreScore
			post[i] = r.PostScore
		}
		paired, err := stats.PairedTTest(pre, post)
		if err != nil {
			return nil, err
		}
		rep.Paired[g] = paired
	}

	return rep, nil
}

// Visualize renders the figure set for an already-merged cohort
func (p *Pipeline) Visualize(inputs *Inputs) ([]string, error) {
	cohort, err := dataset.Merge(inputs.Sources)
	if err != nil {
		return nil, err
	}
	summaries, err := stats.DescribeCohort(cohort)
	if err != nil {
		return nil, err
	}

	renderer, err := plot.NewRenderer(p.cfg.FiguresDir)
	if err != nil {
		return nil, err
	}
	files, err := renderer.RenderAll(cohort, summaries)
	if err != nil {
		return nil, errors.Wrap(err, "rendering figures")
	}
	for _, f := range files {
		p.log.Info("wrote %s", f)
	}
	return files, nil
}

// Run executes the whole pipeline and persists report, figures, and the
// run manifest.
func (p *Pipeline) Run() (*report.Report, error) {
	inputs, err := p.Load()
	if err != nil {
		return nil, err
	}

	rep, err := p.Analyze(inputs)
	if err != nil {
		return nil, err
	}

	figures, err := p.Visualize(inputs)
	if err != nil {
		return nil, err
	}
	rep.Figures = figures

	if err := rep.WriteFiles(p.cfg.ReportDir); err != nil {
		return nil, errors.IOError("writing report", err)
	}

	if err := inputs.Manifest.Validate(); err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(p.cfg.ReportDir, "run_manifest.json")
	if err := inputs.Manifest.Save(manifestPath); err != nil {
		return nil, errors.IOError("writing run manifest", err)
	}
	p.log.Info("run %s complete: report in %s, %d figures", rep.RunID, p.cfg.ReportDir, len(figures))

	return rep, nil
}

type testFunc func(study.Outcome, []float64, []float64) (study.TestResult, error)

// betweenGroups applies a two-sample test with experimental as sample 1 and
// control as sample 2, matching how the study reports its differences.
func betweenGroups(test testFunc, outcome study.Outcome, cohort study.Cohort) (study.TestResult, error) {
	exp := cohort.Values(study.GroupExperimental, outcome)
	ctrl := cohort.Values(study.GroupControl, outcome)
	res, err := test(outcome, exp, ctrl)
	if err != nil {
		return study.TestResult{}, err
	}
	return res, nil
}

func fingerprint(m *run.Manifest, path string, rows int) error {
	sum, err := core.HashFile(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("fingerprinting %s", path), err)
	}
	m.AddInput(path, sum, rows)
	return nil
}
