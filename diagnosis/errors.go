package diagnosis

import "errors"

var (
	// ErrInvalidAudio marks an empty or malformed audio buffer. Callers
	// must not proceed to extraction.
	ErrInvalidAudio = errors.New("invalid audio sample")

	// ErrFeatureExtraction marks a wrong-shaped or non-finite feature
	// vector. Recoverable; the caller picks the fallback.
	ErrFeatureExtraction = errors.New("feature extraction failed")

	// ErrClassifierUnavailable marks a missing or mismatched trained
	// model. The classifier path never fabricates a confident answer.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)
