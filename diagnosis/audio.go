package diagnosis

// Audio intake
//
// Recordings reach the core either as uploaded WAV files or as base64
// encoded WAV payloads captured in the browser. Decoding happens here;
// the analysis code below only ever sees mono float64 samples plus a
// sample rate. The core never retains the buffer after extraction.

import (
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/sndercer/compressor-ai-diagnosis/models"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
	"github.com/sndercer/compressor-ai-diagnosis/wav"
)

// AudioSample bundles decoded PCM samples with contextual metadata.
type AudioSample struct {
	Samples    []float64
	SampleRate int
	Duration   float64
	Persisted  string
}

// Validate checks the AudioSample invariants: non-empty, positive rate,
// all values finite.
func (a *AudioSample) Validate() error {
	if a == nil || len(a.Samples) == 0 {
		return fmt.Errorf("%w: empty buffer", ErrInvalidAudio)
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, a.SampleRate)
	}
	for i, v := range a.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrInvalidAudio, i)
		}
	}
	return nil
}

// PrepareAudioSample converts the base64 WAV payload emitted by the client
// into mono samples suitable for feature extraction. A non-empty
// recordingDir persists the raw upload there.
func PrepareAudioSample(recData models.RecordData, recordingDir string) (*AudioSample, error) {
	decoded, err := base64.StdEncoding.DecodeString(recData.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 audio: %w", err)
	}

	info, err := wav.ParseWavBytes(decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}

	samples, err := wav.WavBytesToSamples(info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	samples = wav.DownmixMono(samples, info.Channels)

	result := &AudioSample{
		Samples:    samples,
		SampleRate: info.SampleRate,
		Duration:   float64(len(samples)) / float64(info.SampleRate),
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	if recordingDir != "" {
		if err := utils.CreateFolder(recordingDir); err == nil {
			destination := filepath.Join(recordingDir, fmt.Sprintf("rec_%d.wav", time.Now().UnixNano()))
			if err := os.WriteFile(destination, decoded, 0o644); err == nil {
				result.Persisted = destination
			}
		}
	}

	return result, nil
}

// LoadAudioFile reads a WAV file from disk into an AudioSample.
func LoadAudioFile(path string) (*AudioSample, error) {
	info, err := wav.ReadWavInfo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}

	samples, err := wav.WavBytesToSamples(info.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	samples = wav.DownmixMono(samples, info.Channels)

	result := &AudioSample{
		Samples:    samples,
		SampleRate: info.SampleRate,
		Duration:   float64(len(samples)) / float64(info.SampleRate),
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}
