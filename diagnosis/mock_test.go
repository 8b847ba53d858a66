package diagnosis

import (
	"math"
	"sync"
	"testing"
)

func TestMockDistribution(t *testing.T) {
	t.Parallel()

	const draws = 10000
	gen := NewMockGeneratorWithSeed(12345)

	counts := make(map[FaultLabel]int)
	for i := 0; i < draws; i++ {
		pred := gen.Generate()
		if pred.Provenance != ProvenanceMock {
			t.Fatalf("mock prediction has provenance %s", pred.Provenance)
		}
		counts[pred.Label]++
	}

	var totalWeight float64
	for _, c := range defaultMockCandidates {
		totalWeight += c.weight
	}

	var maxCount int
	var maxLabel FaultLabel
	for _, c := range defaultMockCandidates {
		got := float64(counts[c.label]) / draws
		want := c.weight / totalWeight
		if math.Abs(got-want) > 0.02 {
			t.Errorf("label %s drawn %.3f of the time, want about %.3f", c.label, got, want)
		}
		if counts[c.label] > maxCount {
			maxCount = counts[c.label]
			maxLabel = c.label
		}
	}

	if maxLabel != LabelCompressorNormal {
		t.Errorf("normal candidate should be most frequent, got %s", maxLabel)
	}
}

func TestMockConfidenceMatchesCandidate(t *testing.T) {
	t.Parallel()

	expected := make(map[FaultLabel]float64, len(defaultMockCandidates))
	for _, c := range defaultMockCandidates {
		expected[c.label] = c.confidence
	}

	gen := NewMockGeneratorWithSeed(7)
	for i := 0; i < 100; i++ {
		pred := gen.Generate()
		want, ok := expected[pred.Label]
		if !ok {
			t.Fatalf("mock produced label %s outside the candidate set", pred.Label)
		}
		if pred.Confidence != want {
			t.Fatalf("label %s has confidence %v, want %v", pred.Label, pred.Confidence, want)
		}
		if pred.DisplayName == "" {
			t.Fatal("mock prediction is missing a display name")
		}
	}
}

func TestMockConcurrentGenerate(t *testing.T) {
	t.Parallel()

	// one generator is shared by all HTTP requests; draws must be safe
	// under the race detector
	gen := NewMockGeneratorWithSeed(1)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				pred := gen.Generate()
				if pred.Label == "" || pred.Provenance != ProvenanceMock {
					t.Errorf("concurrent draw produced invalid prediction: %+v", pred)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestMockSeedReproducibility(t *testing.T) {
	t.Parallel()

	a := NewMockGeneratorWithSeed(99)
	b := NewMockGeneratorWithSeed(99)
	for i := 0; i < 50; i++ {
		if a.Generate().Label != b.Generate().Label {
			t.Fatal("same seed must reproduce the same draw sequence")
		}
	}
}
