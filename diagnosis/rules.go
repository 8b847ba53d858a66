package diagnosis

// Rule-based refrigerant shortage scorer
//
// Grades the audio-derived quantities against empirically tuned thresholds
// and adds fixed points for the technician's field observations. The
// thresholds and weights were hand-tuned on field recordings; they are
// carried in RuleConfig so they can be recalibrated without a code change.
//
// ScoreRules is a pure function: same features and observations always
// produce the same verdict.

import "fmt"

// RuleConfig carries every tunable constant of the rule scorer.
type RuleConfig struct {
	// Low-band energy ratio tiers (compressor load), highest first.
	LowBandHigh     float64 `mapstructure:"low_band_high"`
	LowBandElevated float64 `mapstructure:"low_band_elevated"`
	LowBandSlight   float64 `mapstructure:"low_band_slight"`
	LowBandHighPts     int  `mapstructure:"low_band_high_pts"`
	LowBandElevatedPts int  `mapstructure:"low_band_elevated_pts"`
	LowBandSlightPts   int  `mapstructure:"low_band_slight_pts"`

	// Mid-band dominant frequency tiers (refrigerant flow), lowest first.
	MidPeakLow     float64 `mapstructure:"mid_peak_low"`
	MidPeakReduced float64 `mapstructure:"mid_peak_reduced"`
	MidPeakSlight  float64 `mapstructure:"mid_peak_slight"`
	MidPeakLowPts     int  `mapstructure:"mid_peak_low_pts"`
	MidPeakReducedPts int  `mapstructure:"mid_peak_reduced_pts"`
	MidPeakSlightPts  int  `mapstructure:"mid_peak_slight_pts"`

	// High-band noise ratio tiers (system stress).
	HighBandHigh     float64 `mapstructure:"high_band_high"`
	HighBandElevated float64 `mapstructure:"high_band_elevated"`
	HighBandHighPts     int  `mapstructure:"high_band_high_pts"`
	HighBandElevatedPts int  `mapstructure:"high_band_elevated_pts"`

	// RMS vibration tiers.
	RMSHigh     float64 `mapstructure:"rms_high"`
	RMSElevated float64 `mapstructure:"rms_elevated"`
	RMSHighPts     int  `mapstructure:"rms_high_pts"`
	RMSElevatedPts int  `mapstructure:"rms_elevated_pts"`

	// Field observation contributions.
	CoolingPts int `mapstructure:"cooling_pts"`
	CompressorTempPts int `mapstructure:"compressor_temp_pts"`
	FrostPts   int `mapstructure:"frost_pts"`
	CyclingPts int `mapstructure:"cycling_pts"`

	MaxScore int `mapstructure:"max_score"`

	// Score breakpoints, highest first, mapping to the four outcomes.
	CriticalScore  int `mapstructure:"critical_score"`
	UrgentScore    int `mapstructure:"urgent_score"`
	AttentionScore int `mapstructure:"attention_score"`
}

// DefaultRuleConfig returns the tuned production constants.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		LowBandHigh: 0.28, LowBandElevated: 0.18, LowBandSlight: 0.12,
		LowBandHighPts: 40, LowBandElevatedPts: 25, LowBandSlightPts: 10,

		MidPeakLow: 300, MidPeakReduced: 500, MidPeakSlight: 700,
		MidPeakLowPts: 30, MidPeakReducedPts: 20, MidPeakSlightPts: 5,

		HighBandHigh: 0.20, HighBandElevated: 0.12,
		HighBandHighPts: 20, HighBandElevatedPts: 10,

		RMSHigh: 0.050, RMSElevated: 0.030,
		RMSHighPts: 15, RMSElevatedPts: 8,

		CoolingPts: 20, CompressorTempPts: 15, FrostPts: 10, CyclingPts: 10,

		MaxScore: 100,

		CriticalScore: 70, UrgentScore: 50, AttentionScore: 30,
	}
}

type ruleOutcome struct {
	level      string
	urgency    UrgencyTier
	confidence float64
	action     string
}

var ruleOutcomes = map[UrgencyTier]ruleOutcome{
	UrgencyCritical: {
		level:      "very_low",
		urgency:    UrgencyCritical,
		confidence: 0.9,
		action:     "Stop operation immediately, recharge refrigerant and inspect for leaks",
	},
	UrgencyUrgent: {
		level:      "low",
		urgency:    UrgencyUrgent,
		confidence: 0.8,
		action:     "Check refrigerant charge and inspect for leaks, recharge as soon as possible",
	},
	UrgencyAttention: {
		level:      "slightly_low",
		urgency:    UrgencyAttention,
		confidence: 0.7,
		action:     "Schedule a refrigerant charge check and monitor performance closely",
	},
	UrgencyNormal: {
		level:      "normal",
		urgency:    UrgencyNormal,
		confidence: 0.6,
		action:     "Maintain current operation, continue periodic inspection",
	},
}

// ScoreRules grades the refrigerant features plus optional field
// observations into a diagnosis verdict.
func ScoreRules(cfg RuleConfig, features *RefrigerantFeatures, obs *FieldObservation) DiagnosisVerdict {
	score := 0
	breakdown := make([]Rationale, 0, 8)
	add := func(severity Severity, format string, args ...any) {
		breakdown = append(breakdown, Rationale{Severity: severity, Message: fmt.Sprintf(format, args...)})
	}

	// 1. Low-band energy (compressor load)
	low := features.LowFreqEnergy
	switch {
	case low > cfg.LowBandHigh:
		score += cfg.LowBandHighPts
		add(SeverityDanger, "high low-band energy (%.3f), possible compressor overload", low)
	case low > cfg.LowBandElevated:
		score += cfg.LowBandElevatedPts
		add(SeverityWarning, "elevated low-band energy (%.3f), load increasing", low)
	case low > cfg.LowBandSlight:
		score += cfg.LowBandSlightPts
		add(SeverityInfo, "slightly raised low-band energy (%.3f), upper normal range", low)
	default:
		add(SeverityOK, "normal low-band energy (%.3f)", low)
	}

	// 2. Mid-band dominant frequency (refrigerant flow)
	mid := features.MidFreqPeak
	switch {
	case mid < cfg.MidPeakLow:
		score += cfg.MidPeakLowPts
		add(SeverityDanger, "low refrigerant flow frequency (%.0fHz), shortage suspected", mid)
	case mid < cfg.MidPeakReduced:
		score += cfg.MidPeakReducedPts
		add(SeverityWarning, "reduced refrigerant flow (%.0fHz)", mid)
	case mid < cfg.MidPeakSlight:
		score += cfg.MidPeakSlightPts
		add(SeverityInfo, "slightly low refrigerant flow (%.0fHz)", mid)
	default:
		add(SeverityOK, "normal refrigerant flow (%.0fHz)", mid)
	}

	// 3. High-band noise (system stress)
	high := features.HighFreqNoise
	switch {
	case high > cfg.HighBandHigh:
		score += cfg.HighBandHighPts
		add(SeverityDanger, "high system noise (%.3f), stressed operation", high)
	case high > cfg.HighBandElevated:
		score += cfg.HighBandElevatedPts
		add(SeverityWarning, "elevated noise level (%.3f)", high)
	default:
		add(SeverityOK, "normal noise level (%.3f)", high)
	}

	// 4. RMS level (overall vibration)
	rms := features.RMSLevel
	switch {
	case rms > cfg.RMSHigh:
		score += cfg.RMSHighPts
		add(SeverityDanger, "high vibration level (%.3f), system under load", rms)
	case rms > cfg.RMSElevated:
		score += cfg.RMSElevatedPts
		add(SeverityWarning, "elevated vibration (%.3f)", rms)
	default:
		add(SeverityOK, "normal vibration level (%.3f)", rms)
	}

	// 5. Field observations
	if obs != nil {
		if obs.CoolingPerformance == CoolingPoor || obs.CoolingPerformance == CoolingVeryPoor {
			score += cfg.CoolingPts
			add(SeverityDanger, "field check: degraded cooling performance")
		}
		if obs.CompressorTemperature == CompressorTempHot || obs.CompressorTemperature == CompressorTempVeryHot {
			score += cfg.CompressorTempPts
			add(SeverityDanger, "field check: compressor overheating")
		}
		if obs.FrostFormation == FrostHeavy || obs.FrostFormation == FrostModerate {
			score += cfg.FrostPts
			add(SeverityWarning, "field check: excessive frost formation")
		}
		if obs.CyclingFrequency == CyclingFrequent {
			score += cfg.CyclingPts
			add(SeverityWarning, "field check: frequent compressor cycling")
		}
	}

	if score > cfg.MaxScore {
		score = cfg.MaxScore
	}

	var outcome ruleOutcome
	switch {
	case score >= cfg.CriticalScore:
		outcome = ruleOutcomes[UrgencyCritical]
	case score >= cfg.UrgentScore:
		outcome = ruleOutcomes[UrgencyUrgent]
	case score >= cfg.AttentionScore:
		outcome = ruleOutcomes[UrgencyAttention]
	default:
		outcome = ruleOutcomes[UrgencyNormal]
	}

	return DiagnosisVerdict{
		Level:             outcome.level,
		Urgency:           outcome.urgency,
		UrgencyName:       outcome.urgency.String(),
		RecommendedAction: outcome.action,
		Confidence:        outcome.confidence,
		TotalScore:        score,
		Breakdown:         breakdown,
		Provenance:        ProvenanceRules,
	}
}
