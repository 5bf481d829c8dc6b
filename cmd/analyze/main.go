// Command analyze runs the statistical analysis (descriptives, Welch's t,
// Mann-Whitney U, effect sizes, confidence intervals) and writes the report
// files. Figures are left to the visualize command.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"edustat/app"
	"edustat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	pipeline := app.New(cfg)
	inputs, err := pipeline.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "analysis aborted:", err)
		os.Exit(1)
	}

	rep, err := pipeline.Analyze(inputs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analysis aborted:", err)
		os.Exit(1)
	}

	fmt.Print(rep.Text())

	if err := rep.WriteFiles(cfg.ReportDir); err != nil {
		fmt.Fprintln(os.Stderr, "writing report:", err)
		os.Exit(1)
	}
	if err := inputs.Manifest.Save(filepath.Join(cfg.ReportDir, "run_manifest.json")); err != nil {
		fmt.Fprintln(os.Stderr, "writing run manifest:", err)
		os.Exit(1)
	}
}
