// Command visualize renders the study's comparison figures from the raw
// data: group mean bar charts with error bars, box plots, and the pre-test
// distribution overlay.
package main

import (
	"fmt"
	"os"

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
		fmt.Fprintln(os.Stderr, "visualization aborted:", err)
		os.Exit(1)
	}

	files, err := pipeline.Visualize(inputs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "visualization aborted:", err)
		os.Exit(1)
	}

	for _, f := range files {
		fmt.Println("wrote", f)
	}
}
