package diagnosis

// Feature Extraction Pipeline
//
// Turns a raw waveform into one of two fixed-shape feature vectors:
//
// Compact (12 dimensions), consumed by the basic classifier:
//   - Basic statistics: mean, standard deviation, max, min, median
//   - Five band energy ratios over the magnitude spectrum:
//     [10,100) [100,500) [500,1500) [1500,3000) [3000,8000) Hz
//   - RMS and crest factor
//
// Extended (21 dimensions), consumed by the enhanced ensemble model:
//   - Basic statistics: mean, standard deviation, max, min
//   - 13 MFCC coefficients averaged over STFT frames
//   - Spectral centroid, roll-off, zero-crossing rate and bandwidth,
//     each averaged over frames
//
// Extraction is deterministic and side-effect free. Numerical edge cases
// (zero energy, empty band, zero RMS) degrade to 0; the only failure is
// the final shape/finite check.

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Extract produces the feature vector for the requested mode.
func Extract(audio *AudioSample, mode FeatureMode) ([]float64, error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}

	var features []float64
	switch mode {
	case ModeCompact:
		features = extractCompact(audio.Samples, audio.SampleRate)
	case ModeExtended:
		features = extractExtended(audio.Samples, audio.SampleRate)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrFeatureExtraction, mode)
	}

	if err := validateVector(features, mode.Dimensions()); err != nil {
		return nil, err
	}
	return features, nil
}

func extractCompact(samples []float64, sampleRate int) []float64 {
	// Fix the window to exactly one second so time-domain statistics are
	// comparable across recordings of different lengths.
	buffer := make([]float64, sampleRate)
	copy(buffer, samples)

	features := make([]float64, 0, CompactFeatureCount)
	features = append(features,
		stat.Mean(buffer, nil),
		populationStd(buffer),
		floats.Max(buffer),
		floats.Min(buffer),
		median(buffer),
	)

	magnitude, freqs := magnitudeSpectrum(buffer, sampleRate)
	var totalMagnitude float64
	for _, m := range magnitude {
		totalMagnitude += m
	}
	for _, band := range compactBands {
		var bandMagnitude float64
		for i, f := range freqs {
			if band.Contains(f) {
				bandMagnitude += magnitude[i]
			}
		}
		if totalMagnitude > 0 {
			features = append(features, bandMagnitude/totalMagnitude)
		} else {
			features = append(features, 0)
		}
	}

	rms := rootMeanSquare(buffer)
	features = append(features, rms, crestFactor(peakAbs(buffer), rms))
	return features
}

// magnitudeSpectrum returns the positive-frequency magnitude spectrum and
// the frequency of each bin. DC and Nyquist are excluded.
func magnitudeSpectrum(samples []float64, sampleRate int) ([]float64, []float64) {
	spectrum := fft.FFTReal(samples)
	n := len(samples)
	binCount := (n+1)/2 - 1
	if binCount < 0 {
		binCount = 0
	}

	magnitude := make([]float64, binCount)
	freqs := make([]float64, binCount)
	for i := 0; i < binCount; i++ {
		magnitude[i] = cmplx.Abs(spectrum[i+1])
		freqs[i] = float64(i+1) * float64(sampleRate) / float64(n)
	}
	return magnitude, freqs
}

// powerSpectrum returns squared magnitudes over positive frequencies.
func powerSpectrum(samples []float64, sampleRate int) ([]float64, []float64) {
	magnitude, freqs := magnitudeSpectrum(samples, sampleRate)
	power := make([]float64, len(magnitude))
	for i, m := range magnitude {
		power[i] = m * m
	}
	return power, freqs
}

func rootMeanSquare(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// populationStd matches the n-divisor convention the training pipeline uses.
func populationStd(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	mean := stat.Mean(samples, nil)
	var variance float64
	for _, v := range samples {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(samples)))
}

func median(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func validateVector(features []float64, expected int) error {
	if len(features) != expected {
		return fmt.Errorf("%w: got %d features, expected %d", ErrFeatureExtraction, len(features), expected)
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrFeatureExtraction, i)
		}
	}
	return nil
}
