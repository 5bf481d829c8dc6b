// Command reproduce replicates the full study analysis in one invocation:
// validation, merge, statistics, figures, report, and run manifest. Run it
// from the repository root with no flags to regenerate every result.
package main

import (
	"fmt"
	"os"

	"edustat/app"
	"edustat/internal/config"
)

func main() {
	fmt.Println("=== REPRODUCING TEACHING-METHODS STUDY ANALYSIS ===")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	rep, err := app.New(cfg).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "reproduction failed:", err)
		os.Exit(1)
	}

	fmt.Print(rep.Text())
	fmt.Println()
	fmt.Printf("analysis complete: dataset %s, report in %s, %d figures in %s\n",
		rep.DatasetVersion, cfg.ReportDir, len(rep.Figures), cfg.FiguresDir)
}
