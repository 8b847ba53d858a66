package diagnosis

// Diagnosis engine
//
// Orchestrates the prediction paths: the enhanced ensemble model over the
// extended feature vector, the basic model over the compact vector, the
// rule scorer for refrigerant diagnosis and the mock generator for demo
// mode. Models are injected at construction and never mutated, so one
// engine is safe for concurrent use.

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

// FusionMode selects how classifier outputs are combined.
type FusionMode string

const (
	// FusionLegacy uses only the basic compact-vector path.
	FusionLegacy FusionMode = "legacy"
	// FusionEnhanced uses only the ensemble model, returning its result
	// even below the confidence threshold.
	FusionEnhanced FusionMode = "enhanced"
	// FusionHybrid prefers the ensemble when confident, falling back to
	// the legacy path otherwise. This is the default.
	FusionHybrid FusionMode = "hybrid"
)

// DefaultFusionThreshold gates the hybrid fallback. Hand-tuned; kept
// configurable pending recalibration on labeled field data.
const DefaultFusionThreshold = 0.6

// EngineConfig carries the engine's injected collaborators and tunables.
type EngineConfig struct {
	Mode      FusionMode
	Threshold float64
	Enhanced  *ModelBundle // extended-vector ensemble, may be nil
	Basic     *ModelBundle // compact-vector model, may be nil
	Mock      *MockGenerator
	Rules     RuleConfig
}

// Engine runs fault predictions and refrigerant diagnoses.
type Engine struct {
	mode      FusionMode
	threshold float64
	enhanced  *ModelBundle
	basic     *ModelBundle
	mock      *MockGenerator
	rules     RuleConfig
	logger    *slog.Logger
}

// NewEngine validates the configuration and builds an engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	switch cfg.Mode {
	case FusionLegacy, FusionEnhanced, FusionHybrid:
	case "":
		cfg.Mode = FusionHybrid
	default:
		return nil, fmt.Errorf("unknown fusion mode %q", cfg.Mode)
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = DefaultFusionThreshold
	}
	if cfg.Enhanced != nil && cfg.Enhanced.Mode != ModeExtended {
		return nil, fmt.Errorf("enhanced model uses %s features, expected %s", cfg.Enhanced.Mode, ModeExtended)
	}
	if cfg.Basic != nil && cfg.Basic.Mode != ModeCompact {
		return nil, fmt.Errorf("basic model uses %s features, expected %s", cfg.Basic.Mode, ModeCompact)
	}

	return &Engine{
		mode:      cfg.Mode,
		threshold: cfg.Threshold,
		enhanced:  cfg.Enhanced,
		basic:     cfg.Basic,
		mock:      cfg.Mock,
		rules:     cfg.Rules,
		logger:    utils.GetLogger(),
	}, nil
}

// Mode returns the configured fusion mode.
func (e *Engine) Mode() FusionMode { return e.mode }

// Threshold returns the hybrid fallback confidence threshold.
func (e *Engine) Threshold() float64 { return e.threshold }

// Predict classifies an audio sample according to the fusion mode.
func (e *Engine) Predict(audio *AudioSample) (Prediction, error) {
	if err := audio.Validate(); err != nil {
		return Prediction{}, err
	}

	switch e.mode {
	case FusionLegacy:
		return e.predictLegacy(audio)
	case FusionEnhanced:
		return e.predictEnhanced(audio)
	default:
		pred, err := e.predictEnhanced(audio)
		if err == nil && pred.Confidence >= e.threshold {
			return pred, nil
		}
		if err != nil {
			e.logger.Warn("enhanced prediction failed, falling back", slog.Any("error", err))
		} else {
			e.logger.Info("enhanced confidence below threshold, falling back",
				slog.Float64("confidence", pred.Confidence),
				slog.Float64("threshold", e.threshold))
		}
		return e.predictLegacy(audio)
	}
}

func (e *Engine) predictEnhanced(audio *AudioSample) (Prediction, error) {
	if e.enhanced == nil {
		return Prediction{}, fmt.Errorf("%w: no enhanced model configured", ErrClassifierUnavailable)
	}
	features, err := Extract(audio, ModeExtended)
	if err != nil {
		return Prediction{}, err
	}
	label, confidence, err := e.enhanced.ScoreClassifier(features)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Label:       label,
		DisplayName: DisplayName(label),
		Confidence:  confidence,
		Provenance:  ProvenanceEnhanced,
	}, nil
}

func (e *Engine) predictLegacy(audio *AudioSample) (Prediction, error) {
	if e.basic != nil {
		features, err := Extract(audio, ModeCompact)
		if err != nil {
			return Prediction{}, err
		}
		label, confidence, err := e.basic.ScoreClassifier(features)
		if err == nil {
			return Prediction{
				Label:       label,
				DisplayName: DisplayName(label),
				Confidence:  confidence,
				Provenance:  ProvenanceLegacy,
			}, nil
		}
		e.logger.Warn("basic model scoring failed", slog.Any("error", err))
	}
	if e.mock != nil {
		return e.mock.Generate(), nil
	}
	return Prediction{}, fmt.Errorf("%w: no legacy model or mock generator configured", ErrClassifierUnavailable)
}

// DiagnoseRefrigerant runs the refrigerant-shortage rule diagnosis over
// an audio sample plus optional field observations.
func (e *Engine) DiagnoseRefrigerant(audio *AudioSample, obs *FieldObservation) (DiagnosisVerdict, error) {
	if err := audio.Validate(); err != nil {
		return DiagnosisVerdict{}, err
	}
	features, err := AnalyzeRefrigerant(audio)
	if err != nil {
		return DiagnosisVerdict{}, err
	}
	verdict := ScoreRules(e.rules, features, obs)
	verdict.DiagnosedAt = time.Now().UTC()
	return verdict, nil
}

// ModelInfo summarises the loaded models for status reporting.
func (e *Engine) ModelInfo() map[string]ModelInfo {
	info := make(map[string]ModelInfo, 2)
	if e.enhanced != nil {
		info["enhanced"] = e.enhanced.Info()
	}
	if e.basic != nil {
		info["basic"] = e.basic.Info()
	}
	return info
}
