package diagnosis

import (
	"math"
	"testing"
)

func TestScalerFitTransform(t *testing.T) {
	t.Parallel()

	samples := [][]float64{
		{1, 10, 5},
		{3, 20, 5},
		{5, 30, 5},
	}
	scaler, err := NewFeatureScalerFromSamples(samples)
	if err != nil {
		t.Fatalf("fit returned error: %v", err)
	}

	if scaler.Mean[0] != 3 || scaler.Mean[1] != 20 {
		t.Errorf("unexpected means: %v", scaler.Mean)
	}
	// constant dimension keeps stddev 1 so Transform stays defined
	if scaler.Stddev[2] != 1 {
		t.Errorf("constant dimension stddev = %v, want 1", scaler.Stddev[2])
	}

	scaled := scaler.Transform([]float64{3, 20, 5})
	for i, v := range scaled {
		if math.Abs(v) > 1e-12 {
			t.Errorf("mean input should scale to zero, got %v at %d", v, i)
		}
	}
}

func TestScalerValidate(t *testing.T) {
	t.Parallel()

	scaler := &FeatureScaler{Mean: []float64{0, 0}, Stddev: []float64{1, 1}}
	if err := scaler.Validate(2); err != nil {
		t.Fatalf("valid scaler rejected: %v", err)
	}
	if err := scaler.Validate(3); err == nil {
		t.Error("dimension mismatch must be rejected")
	}

	scaler.Stddev[1] = 0
	if err := scaler.Validate(2); err == nil {
		t.Error("zero stddev must be rejected")
	}
}

func TestMinMaxScalerTransform(t *testing.T) {
	t.Parallel()

	scaler := &MinMaxScaler{Min: []float64{0, 10, 5}, Max: []float64{2, 20, 5}}
	scaled := scaler.Transform([]float64{1, 20, 5})
	if math.Abs(scaled[0]-0.5) > 1e-12 || math.Abs(scaled[1]-1) > 1e-12 {
		t.Errorf("unexpected scaling: %v", scaled)
	}
	// constant dimension maps to 0
	if scaled[2] != 0 {
		t.Errorf("constant dimension = %v, want 0", scaled[2])
	}
}

func TestForestPredictProba(t *testing.T) {
	t.Parallel()

	// two stumps splitting on feature 0 at 0.5
	tree := DecisionTree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Feature: -1, Value: []float64{8, 2}},
		{Feature: -1, Value: []float64{1, 9}},
	}}
	forest := &Forest{Trees: []DecisionTree{tree, tree}, Classes: 2}
	if err := forest.Validate(1); err != nil {
		t.Fatalf("forest failed validation: %v", err)
	}

	proba := forest.PredictProba([]float64{0.2})
	if math.Abs(proba[0]-0.8) > 1e-12 || math.Abs(proba[1]-0.2) > 1e-12 {
		t.Errorf("left leaf distribution wrong: %v", proba)
	}

	proba = forest.PredictProba([]float64{0.9})
	if math.Abs(proba[1]-0.9) > 1e-12 {
		t.Errorf("right leaf distribution wrong: %v", proba)
	}

	var sum float64
	for _, p := range proba {
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("probabilities sum to %v", sum)
	}
}

func TestForestValidateRejectsMalformedTrees(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		forest *Forest
	}{
		{"empty", &Forest{Classes: 2}},
		{"bad feature", &Forest{Classes: 2, Trees: []DecisionTree{
			{Nodes: []TreeNode{{Feature: 5, Threshold: 0, Left: 1, Right: 1}, {Feature: -1, Value: []float64{1, 0}}}},
		}}},
		{"bad child", &Forest{Classes: 2, Trees: []DecisionTree{
			{Nodes: []TreeNode{{Feature: 0, Threshold: 0, Left: 9, Right: 1}, {Feature: -1, Value: []float64{1, 0}}}},
		}}},
		{"leaf size", &Forest{Classes: 2, Trees: []DecisionTree{
			{Nodes: []TreeNode{{Feature: -1, Value: []float64{1}}}},
		}}},
	}
	for _, tc := range cases {
		if err := tc.forest.Validate(2); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
