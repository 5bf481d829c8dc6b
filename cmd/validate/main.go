// Command validate checks the raw study tables against their schemas and
// prints a validation report. It exits non-zero on the first violation and
// never modifies the data.
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

	inputs, err := app.New(cfg).Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "validation failed:", err)
		os.Exit(1)
	}

	fmt.Printf("=== DATA VALIDATION REPORT (dataset %s) ===\n", inputs.Version)
	for _, s := range inputs.Summaries {
		fmt.Println(" ", s)
	}
	fmt.Println("all tables validated")
}
