package diagnosis

import "testing"

func TestAnalyzeBands(t *testing.T) {
	t.Parallel()

	analysis, err := AnalyzeBands(sineAudio(250, 0.05, 1.0, 22050))
	if err != nil {
		t.Fatalf("AnalyzeBands returned error: %v", err)
	}
	if len(analysis.Bands) != len(DiagnosticBands) {
		t.Fatalf("got %d bands, want %d", len(analysis.Bands), len(DiagnosticBands))
	}

	var ratioSum float64
	var best BandEnergy
	for _, b := range analysis.Bands {
		if b.EnergyRatio < 0 || b.EnergyRatio > 1 {
			t.Errorf("band %s ratio out of [0,1]: %v", b.Band.Name, b.EnergyRatio)
		}
		ratioSum += b.EnergyRatio
		if b.EnergyRatio > best.EnergyRatio {
			best = b
		}
	}
	if ratioSum > 1.0001 {
		t.Errorf("band ratios sum to %v, must not exceed 1", ratioSum)
	}

	// 250Hz lands in the compressor band and the dominant bin tracks it
	if best.Band.Name != "compressor_freq" {
		t.Errorf("dominant band = %s, want compressor_freq", best.Band.Name)
	}
	if best.DominantFreq < 240 || best.DominantFreq > 260 {
		t.Errorf("dominant frequency = %vHz, want about 250Hz", best.DominantFreq)
	}

	if analysis.Vibration.RMS <= 0 || analysis.Vibration.CrestFactor <= 0 {
		t.Errorf("vibration stats missing: %+v", analysis.Vibration)
	}
}
