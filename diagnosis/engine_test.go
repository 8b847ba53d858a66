package diagnosis

import (
	"errors"
	"testing"
)

// newTestBundle builds a validated single-leaf bundle whose forest always
// returns the given class distribution.
func newTestBundle(t *testing.T, mode FeatureMode, distribution []float64, labels []string) *ModelBundle {
	t.Helper()

	dims := mode.Dimensions()
	bundle := &ModelBundle{
		Name:         "test",
		Mode:         mode,
		FeatureCount: dims,
		Forest: &Forest{
			Classes: len(distribution),
			Trees: []DecisionTree{
				{Nodes: []TreeNode{{Feature: -1, Value: distribution}}},
			},
		},
		Scaler: &FeatureScaler{
			Mean:   make([]float64, dims),
			Stddev: onesVector(dims),
		},
		Labels: labels,
	}
	if err := bundle.validate(); err != nil {
		t.Fatalf("test bundle failed validation: %v", err)
	}
	return bundle
}

func onesVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

var testLabels = []string{"compressor_normal", "refrigerant_low", "fan_imbalance"}

func TestHybridFallsBackBelowThreshold(t *testing.T) {
	t.Parallel()

	enhanced := newTestBundle(t, ModeExtended, []float64{0.4, 0.3, 0.3}, testLabels)
	basic := newTestBundle(t, ModeCompact, []float64{0.1, 0.9, 0.0}, testLabels)

	engine, err := NewEngine(EngineConfig{
		Mode:      FusionHybrid,
		Threshold: 0.6,
		Enhanced:  enhanced,
		Basic:     basic,
		Rules:     DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	pred, err := engine.Predict(sineAudio(120, 0.05, 1.0, 22050))
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if pred.Provenance != ProvenanceLegacy {
		t.Fatalf("hybrid mode below threshold must fall back to legacy, got %s", pred.Provenance)
	}
	if pred.Label != "refrigerant_low" {
		t.Errorf("expected legacy label refrigerant_low, got %s", pred.Label)
	}
}

func TestHybridKeepsConfidentEnhanced(t *testing.T) {
	t.Parallel()

	enhanced := newTestBundle(t, ModeExtended, []float64{0.8, 0.1, 0.1}, testLabels)
	basic := newTestBundle(t, ModeCompact, []float64{0.1, 0.9, 0.0}, testLabels)

	engine, err := NewEngine(EngineConfig{
		Mode:      FusionHybrid,
		Threshold: 0.6,
		Enhanced:  enhanced,
		Basic:     basic,
		Rules:     DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	pred, err := engine.Predict(sineAudio(120, 0.05, 1.0, 22050))
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if pred.Provenance != ProvenanceEnhanced {
		t.Fatalf("confident enhanced result must be kept, got %s", pred.Provenance)
	}
	if pred.Label != "compressor_normal" {
		t.Errorf("expected enhanced label compressor_normal, got %s", pred.Label)
	}
}

func TestEnhancedModeReturnsLowConfidence(t *testing.T) {
	t.Parallel()

	enhanced := newTestBundle(t, ModeExtended, []float64{0.4, 0.3, 0.3}, testLabels)

	engine, err := NewEngine(EngineConfig{
		Mode:      FusionEnhanced,
		Threshold: 0.6,
		Enhanced:  enhanced,
		Rules:     DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	pred, err := engine.Predict(sineAudio(120, 0.05, 1.0, 22050))
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if pred.Provenance != ProvenanceEnhanced {
		t.Fatalf("enhanced-only mode must return the classifier result, got %s", pred.Provenance)
	}
	if pred.Confidence >= 0.6 {
		t.Fatalf("test setup expects a below-threshold confidence, got %v", pred.Confidence)
	}
}

func TestLegacyFallsBackToMock(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(EngineConfig{
		Mode:  FusionLegacy,
		Mock:  NewMockGeneratorWithSeed(1),
		Rules: DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	pred, err := engine.Predict(sineAudio(120, 0.05, 1.0, 22050))
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if pred.Provenance != ProvenanceMock {
		t.Fatalf("without models the legacy path must return mock output, got %s", pred.Provenance)
	}
}

func TestPredictWithoutAnyPathFails(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(EngineConfig{
		Mode:  FusionLegacy,
		Rules: DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	_, err = engine.Predict(sineAudio(120, 0.05, 1.0, 22050))
	if !errors.Is(err, ErrClassifierUnavailable) {
		t.Fatalf("expected ErrClassifierUnavailable, got %v", err)
	}
}

func TestPredictRejectsInvalidAudio(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(EngineConfig{
		Mode:  FusionLegacy,
		Mock:  NewMockGeneratorWithSeed(1),
		Rules: DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	_, err = engine.Predict(&AudioSample{Samples: nil, SampleRate: 22050})
	if !errors.Is(err, ErrInvalidAudio) {
		t.Fatalf("expected ErrInvalidAudio, got %v", err)
	}
}

func TestNewEngineRejectsMismatchedModels(t *testing.T) {
	t.Parallel()

	compact := newTestBundle(t, ModeCompact, []float64{1, 0, 0}, testLabels)
	_, err := NewEngine(EngineConfig{
		Mode:     FusionHybrid,
		Enhanced: compact, // compact bundle in the enhanced slot
		Rules:    DefaultRuleConfig(),
	})
	if err == nil {
		t.Fatal("expected error for mismatched model mode")
	}
}

func TestDiagnoseRefrigerant(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(EngineConfig{
		Mode:  FusionLegacy,
		Mock:  NewMockGeneratorWithSeed(1),
		Rules: DefaultRuleConfig(),
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}

	verdict, err := engine.DiagnoseRefrigerant(sineAudio(50, 0.01, 1.0, 22050), nil)
	if err != nil {
		t.Fatalf("DiagnoseRefrigerant returned error: %v", err)
	}
	if verdict.Provenance != ProvenanceRules {
		t.Errorf("verdict provenance should be rules, got %s", verdict.Provenance)
	}
	if verdict.DiagnosedAt.IsZero() {
		t.Error("verdict should carry a timestamp")
	}
	if len(verdict.Breakdown) == 0 {
		t.Error("verdict should carry a breakdown")
	}
}
