package diagnosis

// Refrigerant-shortage audio analysis
//
// A shortage shifts load onto the compressor (more low-frequency energy),
// slows the refrigerant flow (dominant mid-band frequency drops) and
// stresses the system (high-frequency noise rises). This computes the
// quantities the rule scorer grades.

import "math"

// mains hum fundamental; compressor harmonics track its multiples
const fundamentalHz = 50.0

// AnalyzeRefrigerant derives the rule-path feature set from a recording.
func AnalyzeRefrigerant(audio *AudioSample) (*RefrigerantFeatures, error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}

	power, freqs := powerSpectrum(audio.Samples, audio.SampleRate)
	var totalEnergy float64
	for _, p := range power {
		totalEnergy += p
	}

	features := &RefrigerantFeatures{}

	var lowEnergy, highEnergy, midPeakPower float64
	for i, f := range freqs {
		if refrigerantLowBand.Contains(f) {
			lowEnergy += power[i]
		}
		if refrigerantHighBand.Contains(f) {
			highEnergy += power[i]
		}
		if refrigerantMidBand.Contains(f) && power[i] > midPeakPower {
			midPeakPower = power[i]
			features.MidFreqPeak = f
		}
	}
	if totalEnergy > 0 {
		features.LowFreqEnergy = lowEnergy / totalEnergy
		features.HighFreqNoise = highEnergy / totalEnergy
	}

	features.HarmonicDistortion = harmonicDistortion(power, freqs, totalEnergy)

	rms := rootMeanSquare(audio.Samples)
	features.RMSLevel = rms
	features.CrestFactor = crestFactor(peakAbs(audio.Samples), rms)

	features.SpectralCentroid = powerCentroid(power, freqs)
	features.SpectralRolloff = powerRolloff(power, freqs, rolloffThreshold)

	return features, nil
}

// harmonicDistortion sums power near the 2nd through 7th harmonics of the
// mains fundamental, as a fraction of total energy.
func harmonicDistortion(power, freqs []float64, totalEnergy float64) float64 {
	if totalEnergy == 0 {
		return 0
	}

	var harmonicEnergy float64
	for harmonic := 2; harmonic <= 7; harmonic++ {
		target := fundamentalHz * float64(harmonic)
		for i, f := range freqs {
			if math.Abs(f-target) <= 5 {
				harmonicEnergy += power[i]
			}
		}
	}
	return harmonicEnergy / totalEnergy
}

func powerCentroid(power, freqs []float64) float64 {
	var weighted, total float64
	for i := range power {
		weighted += freqs[i] * power[i]
		total += power[i]
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

func powerRolloff(power, freqs []float64, ratio float64) float64 {
	if len(power) == 0 {
		return 0
	}

	var total float64
	for _, p := range power {
		total += p
	}
	if total == 0 {
		return 0
	}

	target := ratio * total
	var cumulative float64
	for i, p := range power {
		cumulative += p
		if cumulative >= target {
			return freqs[i]
		}
	}
	return freqs[len(freqs)-1]
}
