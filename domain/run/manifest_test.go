package run

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"edustat/domain/core"
)

func TestNewManifest(t *testing.T) {
	m := NewManifest("corrected", "v1.2.0")
	if core.ID(m.RunID).IsEmpty() {
		t.Fatal("run ID should be generated")
	}
	if m.DatasetVersion != "corrected" || m.CodeVersion != "v1.2.0" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.CreatedAt.IsZero() {
		t.Fatal("created_at should be set")
	}
}

func TestManifestValidate(t *testing.T) {
	m := NewManifest("corrected", "dev")

	// no inputs recorded yet
	if err := m.Validate(); !core.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	m.AddInput("data/raw/pre_test_scores.csv", core.HashBytes([]byte("x")), 41)
	if err := m.Validate(); err != nil {
		t.Fatalf("manifest should validate: %v", err)
	}

	m.DatasetVersion = ""
	if err := m.Validate(); !core.IsValidationError(err) {
		t.Fatalf("expected validation error for empty version, got %v", err)
	}
}

func TestManifestSaveRoundTrip(t *testing.T) {
	m := NewManifest("corrected", "dev")
	m.AddInput("pre.csv", core.HashBytes([]byte("pre")), 41)
	m.AddInput("post.csv", core.HashBytes([]byte("post")), 20)

	path := filepath.Join(t.TempDir(), "run_manifest.json")
	if err := m.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back Manifest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.RunID != m.RunID || len(back.Inputs) != 2 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
	if back.Inputs[0].SHA256 != core.HashBytes([]byte("pre")) {
		t.Fatal("input digest changed in round trip")
	}
	if back.Inputs[1].Rows != 20 {
		t.Fatalf("rows = %d, want 20", back.Inputs[1].Rows)
	}
}
