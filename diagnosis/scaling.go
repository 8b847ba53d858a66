package diagnosis

// Feature scaling
//
// The ensemble model is trained on z-score standardized features, so the
// fitted mean/stddev pair ships inside the model bundle and must be
// applied identically at inference time.

import (
	"errors"
	"fmt"
	"math"
)

// FeatureScaler standardizes features using the z-score parameters fitted
// during training.
type FeatureScaler struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
}

// Validate checks internal consistency against the expected dimension.
func (fs *FeatureScaler) Validate(featureCount int) error {
	if fs == nil {
		return errors.New("scaler is nil")
	}
	if len(fs.Mean) != featureCount || len(fs.Stddev) != featureCount {
		return fmt.Errorf("scaler dimensions (%d/%d) do not match feature count %d",
			len(fs.Mean), len(fs.Stddev), featureCount)
	}
	for i, sd := range fs.Stddev {
		if sd <= 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
			return fmt.Errorf("scaler stddev[%d] = %v is not positive", i, sd)
		}
	}
	return nil
}

// Transform applies z-score standardization, returning a new slice.
func (fs *FeatureScaler) Transform(features []float64) []float64 {
	if len(features) != len(fs.Mean) {
		return features
	}

	scaled := make([]float64, len(features))
	for i, val := range features {
		scaled[i] = (val - fs.Mean[i]) / fs.Stddev[i]
	}
	return scaled
}

// MinMaxScaler rescales features into [0,1] using fitted ranges. Kept for
// bundles exported by the older training pipeline.
type MinMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// Transform rescales each feature into [0,1]; constant dimensions map to 0.
func (ms *MinMaxScaler) Transform(features []float64) []float64 {
	if len(features) != len(ms.Min) || len(ms.Min) != len(ms.Max) {
		return features
	}

	scaled := make([]float64, len(features))
	for i, val := range features {
		span := ms.Max[i] - ms.Min[i]
		if span == 0 {
			continue
		}
		scaled[i] = (val - ms.Min[i]) / span
	}
	return scaled
}

// NewFeatureScalerFromSamples fits scaling parameters from a training set.
// Constant dimensions get stddev 1 to keep Transform defined.
func NewFeatureScalerFromSamples(samples [][]float64) (*FeatureScaler, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples provided")
	}
	featureCount := len(samples[0])
	if featureCount == 0 {
		return nil, errors.New("samples have no features")
	}

	mean := make([]float64, featureCount)
	for _, s := range samples {
		if len(s) != featureCount {
			return nil, errors.New("inconsistent feature dimensions")
		}
		for i, val := range s {
			mean[i] += val
		}
	}
	for i := range mean {
		mean[i] /= float64(len(samples))
	}

	stddev := make([]float64, featureCount)
	for _, s := range samples {
		for i, val := range s {
			diff := val - mean[i]
			stddev[i] += diff * diff
		}
	}
	for i := range stddev {
		stddev[i] = math.Sqrt(stddev[i] / float64(len(samples)))
		if stddev[i] < 1e-10 {
			stddev[i] = 1.0
		}
	}

	return &FeatureScaler{Mean: mean, Stddev: stddev}, nil
}
