package diagnosis

// Demo-mode fallback generator
//
// When no trained model is available, demo callers still need a result.
// The generator draws from a fixed candidate table weighted toward the
// normal state. Output is always tagged ProvenanceMock so downstream
// rendering can never confuse it with an audio-derived inference.

import (
	"math/rand"
	"sync"
	"time"
)

type mockCandidate struct {
	label      FaultLabel
	confidence float64
	weight     float64
}

var defaultMockCandidates = []mockCandidate{
	{LabelCompressorNormal, 0.85, 0.40},
	{LabelCompressorOverload, 0.78, 0.20},
	{LabelFanImbalance, 0.73, 0.15},
	{LabelRefrigerantLow, 0.82, 0.15},
	{LabelVibrationMount, 0.76, 0.10},
}

// MockGenerator produces plausible placeholder predictions. Safe for
// concurrent use; rand.Rand is not, so draws are serialized.
type MockGenerator struct {
	candidates []mockCandidate
	cumulative []float64
	total      float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockGenerator builds a generator over the default candidate table.
func NewMockGenerator() *MockGenerator {
	return NewMockGeneratorWithSeed(time.Now().UnixNano())
}

// NewMockGeneratorWithSeed fixes the random source, for reproducible runs.
func NewMockGeneratorWithSeed(seed int64) *MockGenerator {
	g := &MockGenerator{
		candidates: defaultMockCandidates,
		rng:        rand.New(rand.NewSource(seed)),
	}
	g.cumulative = make([]float64, len(g.candidates))
	for i, c := range g.candidates {
		g.total += c.weight
		g.cumulative[i] = g.total
	}
	return g
}

// Generate draws one weighted candidate.
func (g *MockGenerator) Generate() Prediction {
	g.mu.Lock()
	draw := g.rng.Float64() * g.total
	g.mu.Unlock()
	chosen := g.candidates[len(g.candidates)-1]
	for i, bound := range g.cumulative {
		if draw < bound {
			chosen = g.candidates[i]
			break
		}
	}
	return Prediction{
		Label:       chosen.label,
		DisplayName: DisplayName(chosen.label),
		Confidence:  chosen.confidence,
		Provenance:  ProvenanceMock,
	}
}
