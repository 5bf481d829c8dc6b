package run

import (
	"encoding/json"
	"os"

	"edustat/domain/core"
)

// Manifest records what a pipeline invocation actually ran against: which
// dataset version, which files (by digest), and when. It is the truth source
// for tying a report or figure back to its inputs, since two versions of the
// dataset with different corrections can coexist in the repository.
type Manifest struct {
	RunID          core.RunID     `json:"run_id"`
	DatasetVersion string         `json:"dataset_version"`
	Inputs         []Input        `json:"inputs"`
	CodeVersion    string         `json:"code_version,omitempty"`
	CreatedAt      core.Timestamp `json:"created_at"`
}

// Input fingerprints one raw file consumed by the run
type Input struct {
	Path   string    `json:"path"`
	SHA256 core.Hash `json:"sha256"`
	Rows   int       `json:"rows"`
}

// NewManifest creates a manifest for a fresh run
func NewManifest(datasetVersion, codeVersion string) *Manifest {
	return &Manifest{
		RunID:          core.RunID(core.NewID()),
		DatasetVersion: datasetVersion,
		CodeVersion:    codeVersion,
		CreatedAt:      core.Now(),
	}
}

// AddInput appends a file fingerprint
func (m *Manifest) AddInput(path string, sum core.Hash, rows int) {
	m.Inputs = append(m.Inputs, Input{Path: path, SHA256: sum, Rows: rows})
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("run_manifest", "run_id cannot be empty")
	}
	if m.DatasetVersion == "" {
		return core.NewValidationError("run_manifest", "dataset_version cannot be empty")
	}
	if len(m.Inputs) == 0 {
		return core.NewValidationError("run_manifest", "at least one input fingerprint required")
	}
	return nil
}

// Save writes the manifest as indented JSON
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
