package diagnosis

import "time"

// FeatureMode selects which feature vector shape the extractor produces.
type FeatureMode string

const (
	// ModeCompact is the 12-dimension vector used by the basic classifier
	// and the rule scorer's companions.
	ModeCompact FeatureMode = "compact"
	// ModeExtended is the 21-dimension vector consumed by the enhanced
	// ensemble model.
	ModeExtended FeatureMode = "extended"
)

// Dimensions returns the expected feature vector length for the mode.
func (m FeatureMode) Dimensions() int {
	switch m {
	case ModeCompact:
		return CompactFeatureCount
	case ModeExtended:
		return ExtendedFeatureCount
	}
	return 0
}

const (
	CompactFeatureCount  = 12
	ExtendedFeatureCount = 21
)

// UrgencyTier is the ordinal severity attached to a verdict.
type UrgencyTier int

const (
	UrgencyNormal UrgencyTier = iota
	UrgencyAttention
	UrgencyUrgent
	UrgencyCritical
)

var urgencyNames = [...]string{"normal", "attention", "urgent", "critical"}

func (u UrgencyTier) String() string {
	if u < UrgencyNormal || u > UrgencyCritical {
		return "unknown"
	}
	return urgencyNames[u]
}

// Provenance records which path produced a prediction, so callers can
// render a mock or low-confidence result differently from a real one.
type Provenance string

const (
	ProvenanceEnhanced Provenance = "enhanced"
	ProvenanceLegacy   Provenance = "legacy"
	ProvenanceRules    Provenance = "rules"
	ProvenanceMock     Provenance = "mock"
)

// Prediction is the outcome of one classifier invocation.
type Prediction struct {
	Label       FaultLabel `json:"label"`
	DisplayName string     `json:"displayName"`
	Confidence  float64    `json:"confidence"`
	Provenance  Provenance `json:"provenance"`
}

// Severity tags a rationale line in a verdict breakdown.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Rationale is one human-readable scoring detail.
type Rationale struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// DiagnosisVerdict is the graded outcome of a refrigerant rule diagnosis.
// Immutable once returned; persistence is the caller's concern.
type DiagnosisVerdict struct {
	Level             string      `json:"level"`
	Urgency           UrgencyTier `json:"urgency"`
	UrgencyName       string      `json:"urgencyName"`
	RecommendedAction string      `json:"recommendedAction"`
	Confidence        float64     `json:"confidence"`
	TotalScore        int         `json:"totalScore"`
	Breakdown         []Rationale `json:"breakdown"`
	Provenance        Provenance  `json:"provenance"`
	DiagnosedAt       time.Time   `json:"diagnosedAt"`
}

// Observation tiers entered by the field technician.
type (
	CoolingPerformance    string
	CompressorTemperature string
	FrostFormation        string
	CyclingFrequency      string
)

const (
	CoolingGood     CoolingPerformance = "good"
	CoolingFair     CoolingPerformance = "fair"
	CoolingPoor     CoolingPerformance = "poor"
	CoolingVeryPoor CoolingPerformance = "very_poor"

	CompressorTempNormal  CompressorTemperature = "normal"
	CompressorTempWarm    CompressorTemperature = "warm"
	CompressorTempHot     CompressorTemperature = "hot"
	CompressorTempVeryHot CompressorTemperature = "very_hot"

	FrostNone     FrostFormation = "none"
	FrostLight    FrostFormation = "light"
	FrostModerate FrostFormation = "moderate"
	FrostHeavy    FrostFormation = "heavy"

	CyclingNormal   CyclingFrequency = "normal"
	CyclingFrequent CyclingFrequency = "frequent"
)

// FieldObservation captures the technician's on-site signals. It is
// combined additively with the audio-derived rule score.
type FieldObservation struct {
	CoolingPerformance    CoolingPerformance    `json:"coolingPerformance"`
	CompressorTemperature CompressorTemperature `json:"compressorTemperature"`
	FrostFormation        FrostFormation        `json:"frostFormation"`
	CyclingFrequency      CyclingFrequency      `json:"cyclingFrequency"`
	Notes                 string                `json:"notes,omitempty"`
}

// RefrigerantFeatures are the audio quantities consumed by the rule scorer.
type RefrigerantFeatures struct {
	LowFreqEnergy      float64 `json:"lowFreqEnergy"`      // [20,200) Hz power ratio, compressor load
	MidFreqPeak        float64 `json:"midFreqPeak"`        // dominant Hz in [200,1500), refrigerant flow
	HighFreqNoise      float64 `json:"highFreqNoise"`      // [1500,8000) Hz power ratio, system stress
	HarmonicDistortion float64 `json:"harmonicDistortion"` // 2nd-7th harmonics of mains hum
	RMSLevel           float64 `json:"rmsLevel"`
	CrestFactor        float64 `json:"crestFactor"`
	SpectralCentroid   float64 `json:"spectralCentroid"`
	SpectralRolloff    float64 `json:"spectralRolloff"`
}
