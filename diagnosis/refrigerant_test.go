package diagnosis

import (
	"math"
	"testing"
)

func TestAnalyzeRefrigerantSine(t *testing.T) {
	t.Parallel()

	// a pure 50Hz tone concentrates nearly all energy in the
	// compressor-load band
	features, err := AnalyzeRefrigerant(sineAudio(50, 0.01, 1.0, 22050))
	if err != nil {
		t.Fatalf("AnalyzeRefrigerant returned error: %v", err)
	}

	if features.LowFreqEnergy < 0.9 {
		t.Errorf("low band energy ratio = %v, want near 1 for a 50Hz tone", features.LowFreqEnergy)
	}
	if features.HighFreqNoise > 0.05 {
		t.Errorf("high band noise = %v, want near 0 for a 50Hz tone", features.HighFreqNoise)
	}

	wantRMS := 0.01 / math.Sqrt2
	if math.Abs(features.RMSLevel-wantRMS) > 1e-3 {
		t.Errorf("RMS = %v, want about %v", features.RMSLevel, wantRMS)
	}
	if math.Abs(features.CrestFactor-math.Sqrt2) > 0.05 {
		t.Errorf("crest factor = %v, want about %v", features.CrestFactor, math.Sqrt2)
	}

	if features.SpectralCentroid < 20 || features.SpectralCentroid > 200 {
		t.Errorf("spectral centroid = %v, want near 50Hz", features.SpectralCentroid)
	}
}

func TestAnalyzeRefrigerantBounds(t *testing.T) {
	t.Parallel()

	features, err := AnalyzeRefrigerant(noiseAudio(3, 1.0, 22050))
	if err != nil {
		t.Fatalf("AnalyzeRefrigerant returned error: %v", err)
	}

	ratios := map[string]float64{
		"low":      features.LowFreqEnergy,
		"high":     features.HighFreqNoise,
		"harmonic": features.HarmonicDistortion,
	}
	for name, v := range ratios {
		if v < 0 || v > 1 {
			t.Errorf("%s ratio out of [0,1]: %v", name, v)
		}
	}
	if features.MidFreqPeak != 0 && !refrigerantMidBand.Contains(features.MidFreqPeak) {
		t.Errorf("mid peak %vHz outside the flow band", features.MidFreqPeak)
	}
}

func TestAnalyzeRefrigerantSilence(t *testing.T) {
	t.Parallel()

	audio := &AudioSample{Samples: make([]float64, 22050), SampleRate: 22050, Duration: 1}
	features, err := AnalyzeRefrigerant(audio)
	if err != nil {
		t.Fatalf("silence must analyze cleanly, got: %v", err)
	}
	if features.LowFreqEnergy != 0 || features.RMSLevel != 0 || features.CrestFactor != 0 {
		t.Errorf("silence should degrade to zeros, got %+v", features)
	}
}
