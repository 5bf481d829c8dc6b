package config

import (
	"os"
	"path/filepath"

	"edustat/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration. Every field has
// a default matching the repository layout, so the analysis binaries run
// with no flags from the repo root.
type Config struct {
	DataDir        string // directory holding the raw score tables
	FiguresDir     string // where generated plots are written
	ReportDir      string // where the report and run manifest are written
	ManifestPath   string // dataset manifest (versions + provenance)
	DatasetVersion string // overrides the manifest's default version when set
}

// Load reads configuration from a .env file (if present) and the environment
func Load() (*Config, error) {
	// Missing .env is fine; the defaults below stand on their own.
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:        getEnv("DATA_DIR", filepath.Join("data", "raw")),
		FiguresDir:     getEnv("FIGURES_DIR", "figures"),
		ReportDir:      getEnv("REPORT_DIR", "report"),
		ManifestPath:   getEnv("DATASET_MANIFEST", filepath.Join("data", "manifest.yaml")),
		DatasetVersion: os.Getenv("DATASET_VERSION"),
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return errors.ConfigInvalid("DATA_DIR cannot be empty")
	}
	if c.ManifestPath == "" {
		return errors.ConfigInvalid("DATASET_MANIFEST cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
