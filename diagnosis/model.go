package diagnosis

// Trained model bundle
//
// The training pipeline runs offline and exports a JSON bundle holding the
// fitted forest, the fitted feature scaler and the label table. The bundle
// is loaded once at startup, validated, then shared read-only across all
// callers; nothing here mutates it after load.

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

// ModelBundle is the deserialized trained-model artifact.
type ModelBundle struct {
	Name         string         `json:"name,omitempty"`
	Mode         FeatureMode    `json:"mode"`
	FeatureCount int            `json:"feature_count"`
	Forest       *Forest        `json:"forest"`
	Scaler       *FeatureScaler `json:"scaler"`
	Labels       []string       `json:"labels"`

	table        *LabelTable
	usingExample bool
}

// LoadModelBundle reads and validates a model bundle. When the primary
// file is missing it falls back to the `.example` variant next to it,
// e.g. "model.json" -> "model.example.json".
func LoadModelBundle(path string) (*ModelBundle, error) {
	resolvedPath := filepath.Clean(path)
	data, err := os.ReadFile(resolvedPath)
	usingExample := false
	if err != nil {
		ext := filepath.Ext(resolvedPath)
		base := strings.TrimSuffix(resolvedPath, ext)
		fallbackPath := base + ".example" + ext
		data, err = os.ReadFile(fallbackPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load model bundle (%s): %v", ErrClassifierUnavailable, resolvedPath, err)
		}
		utils.GetLogger().Warn("falling back to example model bundle", slog.String("path", fallbackPath))
		usingExample = true
	}

	var bundle ModelBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("%w: unable to parse model bundle: %v", ErrClassifierUnavailable, err)
	}
	bundle.usingExample = usingExample

	if err := bundle.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	return &bundle, nil
}

func (m *ModelBundle) validate() error {
	if m.Mode != ModeCompact && m.Mode != ModeExtended {
		return fmt.Errorf("unknown feature mode %q", m.Mode)
	}
	if m.FeatureCount != m.Mode.Dimensions() {
		return fmt.Errorf("feature count %d does not match mode %s (%d)",
			m.FeatureCount, m.Mode, m.Mode.Dimensions())
	}
	if err := m.Forest.Validate(m.FeatureCount); err != nil {
		return err
	}
	if err := m.Scaler.Validate(m.FeatureCount); err != nil {
		return err
	}

	table, err := NewLabelTable(m.Labels)
	if err != nil {
		return err
	}
	m.table = table

	if m.Forest.Classes > table.Len() {
		// classes beyond the table resolve to explicit unknown labels
		utils.GetLogger().Warn("model has more classes than labels",
			slog.Int("classes", m.Forest.Classes),
			slog.Int("labels", table.Len()))
	}
	return nil
}

// UsingExample reports whether the bundle came from the example fallback.
func (m *ModelBundle) UsingExample() bool { return m.usingExample }

// LabelTable exposes the validated label mapping.
func (m *ModelBundle) LabelTable() *LabelTable { return m.table }

// ScoreClassifier scales the feature vector and runs the ensemble.
// A shape mismatch means model and extractor disagree; that is a model
// availability problem, never a guessed answer.
func (m *ModelBundle) ScoreClassifier(features []float64) (FaultLabel, float64, error) {
	if m == nil || m.Forest == nil {
		return "", 0, fmt.Errorf("%w: no model loaded", ErrClassifierUnavailable)
	}
	if len(features) != m.FeatureCount {
		return "", 0, fmt.Errorf("%w: got %d features, model expects %d",
			ErrClassifierUnavailable, len(features), m.FeatureCount)
	}

	scaled := m.Scaler.Transform(features)
	proba := m.Forest.PredictProba(scaled)
	best := argmax(proba)
	return m.table.LabelFor(best), proba[best], nil
}

// ModelInfo summarises a loaded bundle for status endpoints and tooling.
type ModelInfo struct {
	Name         string      `json:"name"`
	Mode         FeatureMode `json:"mode"`
	FeatureCount int         `json:"featureCount"`
	TreeCount    int         `json:"treeCount"`
	ClassCount   int         `json:"classCount"`
	Labels       []string    `json:"labels"`
	UsingExample bool        `json:"usingExample"`
}

// Info returns summary metadata about the bundle.
func (m *ModelBundle) Info() ModelInfo {
	info := ModelInfo{
		Name:         m.Name,
		Mode:         m.Mode,
		FeatureCount: m.FeatureCount,
		UsingExample: m.usingExample,
		Labels:       m.Labels,
	}
	if m.Forest != nil {
		info.TreeCount = len(m.Forest.Trees)
		info.ClassCount = m.Forest.Classes
	}
	return info
}
