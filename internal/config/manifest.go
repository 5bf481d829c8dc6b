package config

import (
	"os"
	"path/filepath"
	"sort"

	"edustat/internal/errors"

	"gopkg.in/yaml.v3"
)

// DatasetManifest declares the dataset versions available in the repository.
// The study's documentation carried two versions of the data with different
// corrections applied (and contradictory conclusions), so the version a run
// uses is configuration with recorded provenance, never an assumption baked
// into code.
type DatasetManifest struct {
	// Default names the version used when DATASET_VERSION is unset
	Default  string                    `yaml:"default"`
	Versions map[string]DatasetVersion `yaml:"versions"`
}

// DatasetVersion names the raw files of one version and its provenance
type DatasetVersion struct {
	Description      string `yaml:"description"`
	Provenance       string `yaml:"provenance"`
	PreTest          string `yaml:"pre_test"`
	PostControl      string `yaml:"post_control"`
	PostExperimental string `yaml:"post_experimental"`
	// IdentifierMap is optional; when empty, tables join directly on student_id
	IdentifierMap string `yaml:"identifier_map,omitempty"`
	// ColumnAliases renames known-bad headers before validation
	// (e.g. the istudent_id typo in the original experimental post-test)
	ColumnAliases map[string]string `yaml:"column_aliases,omitempty"`
}

// LoadManifest reads and validates a dataset manifest
func LoadManifest(path string) (*DatasetManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError("reading dataset manifest "+path, err)
	}

	var m DatasetManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing dataset manifest "+path)
	}

	if len(m.Versions) == 0 {
		return nil, errors.ConfigInvalid("dataset manifest declares no versions")
	}
	if m.Default == "" {
		return nil, errors.ConfigInvalid("dataset manifest has no default version")
	}
	if _, ok := m.Versions[m.Default]; !ok {
		return nil, errors.ConfigInvalid("default version " + m.Default + " not declared in manifest")
	}
	for name, v := range m.Versions {
		if v.PreTest == "" || v.PostControl == "" || v.PostExperimental == "" {
			return nil, errors.ConfigInvalid("version " + name + " must name pre_test, post_control, and post_experimental files")
		}
	}
	return &m, nil
}

// Resolve picks a version by name (or the default when name is empty) and
// returns its file paths joined onto dataDir
func (m *DatasetManifest) Resolve(name, dataDir string) (string, DatasetVersion, error) {
	if name == "" {
		name = m.Default
	}
	v, ok := m.Versions[name]
	if !ok {
		return "", DatasetVersion{}, errors.ConfigInvalid("dataset version " + name + " not declared in manifest (have: " + joinNames(m.Versions) + ")")
	}

	v.PreTest = filepath.Join(dataDir, v.PreTest)
	v.PostControl = filepath.Join(dataDir, v.PostControl)
	v.PostExperimental = filepath.Join(dataDir, v.PostExperimental)
	if v.IdentifierMap != "" {
		v.IdentifierMap = filepath.Join(dataDir, v.IdentifierMap)
	}
	return name, v, nil
}

func joinNames(versions map[string]DatasetVersion) string {
	names := make([]string, 0, len(versions))
	for n := range versions {
		names = append(names, n)
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
