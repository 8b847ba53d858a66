package diagnosis

// Extended feature path
//
// The 21-dimension vector feeds the enhanced ensemble model, so the frame
// configuration here is part of the model contract: window 2048, hop 512,
// Hann window, 13 MFCCs. Training and inference must agree on all of it.

import (
	"fmt"

	"github.com/RyanBlaney/sonido-sonar/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sonar/algorithms/windowing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	analysisWindowSize = 2048
	analysisHopSize    = 512
	mfccCoefficients   = 13
	rolloffThreshold   = 0.85
)

func extractExtended(samples []float64, sampleRate int) []float64 {
	// Short captures are padded up to one analysis window so the STFT
	// always yields at least one frame.
	signal := samples
	if len(signal) < analysisWindowSize {
		signal = make([]float64, analysisWindowSize)
		copy(signal, samples)
	}

	features := make([]float64, 0, ExtendedFeatureCount)
	features = append(features,
		stat.Mean(signal, nil),
		populationStd(signal),
		floats.Max(signal),
		floats.Min(signal),
	)

	spectrogram, err := computeSpectrogram(signal, sampleRate)
	if err != nil {
		// Leaves the vector short; the caller's shape check rejects it.
		return features
	}

	mfcc := spectral.NewMFCC(sampleRate, mfccCoefficients)
	frames, err := mfcc.ComputeFrames(spectrogram)
	if err != nil || len(frames) == 0 {
		features = append(features, make([]float64, mfccCoefficients)...)
	} else {
		features = append(features, columnMeans(frames, mfccCoefficients)...)
	}

	centroid := spectral.NewSpectralCentroid(sampleRate)
	centroids := centroid.ComputeFrames(spectrogram)

	rolloff := spectral.NewSpectralRolloff(sampleRate)
	rolloffs := rolloff.ComputeFrames(spectrogram, rolloffThreshold)

	zcr := spectral.NewZeroCrossingRateWithParams(sampleRate, analysisWindowSize, analysisHopSize)
	zcrValues := zcr.ComputeFramesNormalized(signal)

	bandwidth := spectral.NewSpectralBandwidth(sampleRate)
	bandwidths := bandwidth.ComputeFrames(spectrogram, centroids)

	features = append(features,
		meanOrZero(centroids),
		meanOrZero(rolloffs),
		meanOrZero(zcrValues),
		meanOrZero(bandwidths),
	)
	return features
}

func computeSpectrogram(signal []float64, sampleRate int) ([][]float64, error) {
	stft := spectral.NewSTFT()
	window := windowing.NewHann(analysisWindowSize, false)
	result, err := stft.ComputeWithWindow(signal, analysisWindowSize, analysisHopSize, sampleRate, window)
	if err != nil {
		return nil, fmt.Errorf("stft failed: %w", err)
	}
	return result.Magnitude, nil
}

func columnMeans(frames [][]float64, width int) []float64 {
	means := make([]float64, width)
	if len(frames) == 0 {
		return means
	}
	var counted int
	for _, frame := range frames {
		if len(frame) < width {
			continue
		}
		for i := 0; i < width; i++ {
			means[i] += frame[i]
		}
		counted++
	}
	if counted == 0 {
		return means
	}
	for i := range means {
		means[i] /= float64(counted)
	}
	return means
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}
