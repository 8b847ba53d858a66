package diagnosis

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestBundleFile(t *testing.T, path string, bundle *ModelBundle) {
	t.Helper()
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("failed to marshal bundle: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write bundle: %v", err)
	}
}

func TestLoadModelBundle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	writeTestBundleFile(t, path, newTestBundle(t, ModeCompact, []float64{0.2, 0.7, 0.1}, testLabels))

	bundle, err := LoadModelBundle(path)
	if err != nil {
		t.Fatalf("LoadModelBundle returned error: %v", err)
	}
	if bundle.UsingExample() {
		t.Error("bundle loaded from the primary path must not be flagged as example")
	}

	label, confidence, err := bundle.ScoreClassifier(make([]float64, CompactFeatureCount))
	if err != nil {
		t.Fatalf("ScoreClassifier returned error: %v", err)
	}
	if label != "refrigerant_low" {
		t.Errorf("expected refrigerant_low, got %s", label)
	}
	if confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", confidence)
	}
}

func TestLoadModelBundleExampleFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	examplePath := filepath.Join(dir, "model.example.json")
	writeTestBundleFile(t, examplePath, newTestBundle(t, ModeCompact, []float64{1, 0, 0}, testLabels))

	bundle, err := LoadModelBundle(filepath.Join(dir, "model.json"))
	if err != nil {
		t.Fatalf("LoadModelBundle should fall back to the example file, got: %v", err)
	}
	if !bundle.UsingExample() {
		t.Error("fallback bundle must be flagged as example")
	}
}

func TestLoadModelBundleMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadModelBundle(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
}

func TestLoadModelBundleRejectsBadScaler(t *testing.T) {
	t.Parallel()

	bundle := newTestBundle(t, ModeCompact, []float64{1, 0, 0}, testLabels)
	bundle.Scaler.Stddev[0] = 0 // invalid

	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	writeTestBundleFile(t, path, bundle)

	if _, err := LoadModelBundle(path); !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable for bad scaler, got %v", err)
	}
}

func TestScoreClassifierShapeMismatch(t *testing.T) {
	t.Parallel()

	bundle := newTestBundle(t, ModeCompact, []float64{1, 0, 0}, testLabels)
	_, _, err := bundle.ScoreClassifier(make([]float64, ExtendedFeatureCount))
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable for shape mismatch, got %v", err)
	}
}
