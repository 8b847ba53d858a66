package diagnosis

// Ensemble-tree inference
//
// The enhanced classifier is a forest of decision trees fitted offline by
// the training pipeline and shipped as part of the model bundle. Only
// inference lives here: each tree votes with its leaf class distribution
// and the forest averages the votes into a probability vector.

import (
	"errors"
	"fmt"
)

// TreeNode is one node of a serialized decision tree. Internal nodes
// route on Feature/Threshold; leaves carry a class distribution.
type TreeNode struct {
	Feature   int       `json:"feature"` // -1 marks a leaf
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Value     []float64 `json:"value,omitempty"`
}

// IsLeaf reports whether the node is a leaf.
func (n TreeNode) IsLeaf() bool { return n.Feature < 0 }

// DecisionTree is a flattened tree; node 0 is the root.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *DecisionTree) validate(featureCount, classCount int) error {
	if len(t.Nodes) == 0 {
		return errors.New("tree has no nodes")
	}
	for i, node := range t.Nodes {
		if node.IsLeaf() {
			if len(node.Value) != classCount {
				return fmt.Errorf("leaf %d has %d class values, expected %d", i, len(node.Value), classCount)
			}
			continue
		}
		if node.Feature >= featureCount {
			return fmt.Errorf("node %d routes on feature %d, model has %d", i, node.Feature, featureCount)
		}
		if node.Left < 0 || node.Left >= len(t.Nodes) || node.Right < 0 || node.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d has out-of-range children", i)
		}
	}
	return nil
}

// predictProba walks the tree and returns the normalized leaf distribution.
func (t *DecisionTree) predictProba(features []float64, classCount int) []float64 {
	idx := 0
	for hops := 0; hops <= len(t.Nodes); hops++ {
		node := t.Nodes[idx]
		if node.IsLeaf() {
			return normalizeDistribution(node.Value, classCount)
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	// cycle in a malformed tree; validated trees never get here
	return make([]float64, classCount)
}

// Forest is the serialized tree ensemble.
type Forest struct {
	Trees   []DecisionTree `json:"trees"`
	Classes int            `json:"classes"`
}

// Validate checks every tree against the expected dimensions.
func (f *Forest) Validate(featureCount int) error {
	if f == nil || len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	if f.Classes <= 0 {
		return fmt.Errorf("forest class count %d is not positive", f.Classes)
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(featureCount, f.Classes); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// PredictProba averages the per-tree class distributions.
func (f *Forest) PredictProba(features []float64) []float64 {
	proba := make([]float64, f.Classes)
	for i := range f.Trees {
		treeProba := f.Trees[i].predictProba(features, f.Classes)
		for c := range proba {
			proba[c] += treeProba[c]
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba
}

func normalizeDistribution(value []float64, classCount int) []float64 {
	dist := make([]float64, classCount)
	var total float64
	for i := 0; i < classCount && i < len(value); i++ {
		dist[i] = value[i]
		total += value[i]
	}
	if total > 0 {
		for i := range dist {
			dist[i] /= total
		}
	}
	return dist
}

// argmax returns the index of the largest probability.
func argmax(proba []float64) int {
	best := 0
	for i := 1; i < len(proba); i++ {
		if proba[i] > proba[best] {
			best = i
		}
	}
	return best
}
