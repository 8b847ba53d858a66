package configs

import (
	"github.com/spf13/viper"

	"github.com/sndercer/compressor-ai-diagnosis/diagnosis"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "data")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5005)

	// Storage defaults
	v.SetDefault("storage.sqlite_path", "data/diagnosis.db")
	v.SetDefault("storage.history_path", "data/history.json")

	// Model defaults
	v.SetDefault("model.enhanced_path", "models/enhanced_model.json")
	v.SetDefault("model.basic_path", "models/basic_model.json")
	v.SetDefault("model.allow_mock", true)

	// Fusion defaults
	v.SetDefault("fusion.mode", string(diagnosis.FusionHybrid))
	v.SetDefault("fusion.threshold", diagnosis.DefaultFusionThreshold)

	// Audio defaults
	v.SetDefault("audio.recording_dir", "data/recordings")
	v.SetDefault("audio.save_recordings", false)

	setRuleDefaults(v)
}

// setRuleDefaults exposes every rule-scorer tunable under rules.*
func setRuleDefaults(v *viper.Viper) {
	rules := diagnosis.DefaultRuleConfig()

	v.SetDefault("rules.low_band_high", rules.LowBandHigh)
	v.SetDefault("rules.low_band_elevated", rules.LowBandElevated)
	v.SetDefault("rules.low_band_slight", rules.LowBandSlight)
	v.SetDefault("rules.low_band_high_pts", rules.LowBandHighPts)
	v.SetDefault("rules.low_band_elevated_pts", rules.LowBandElevatedPts)
	v.SetDefault("rules.low_band_slight_pts", rules.LowBandSlightPts)

	v.SetDefault("rules.mid_peak_low", rules.MidPeakLow)
	v.SetDefault("rules.mid_peak_reduced", rules.MidPeakReduced)
	v.SetDefault("rules.mid_peak_slight", rules.MidPeakSlight)
	v.SetDefault("rules.mid_peak_low_pts", rules.MidPeakLowPts)
	v.SetDefault("rules.mid_peak_reduced_pts", rules.MidPeakReducedPts)
	v.SetDefault("rules.mid_peak_slight_pts", rules.MidPeakSlightPts)

	v.SetDefault("rules.high_band_high", rules.HighBandHigh)
	v.SetDefault("rules.high_band_elevated", rules.HighBandElevated)
	v.SetDefault("rules.high_band_high_pts", rules.HighBandHighPts)
	v.SetDefault("rules.high_band_elevated_pts", rules.HighBandElevatedPts)

	v.SetDefault("rules.rms_high", rules.RMSHigh)
	v.SetDefault("rules.rms_elevated", rules.RMSElevated)
	v.SetDefault("rules.rms_high_pts", rules.RMSHighPts)
	v.SetDefault("rules.rms_elevated_pts", rules.RMSElevatedPts)

	v.SetDefault("rules.cooling_pts", rules.CoolingPts)
	v.SetDefault("rules.compressor_temp_pts", rules.CompressorTempPts)
	v.SetDefault("rules.frost_pts", rules.FrostPts)
	v.SetDefault("rules.cycling_pts", rules.CyclingPts)

	v.SetDefault("rules.max_score", rules.MaxScore)
	v.SetDefault("rules.critical_score", rules.CriticalScore)
	v.SetDefault("rules.urgent_score", rules.UrgentScore)
	v.SetDefault("rules.attention_score", rules.AttentionScore)
}
