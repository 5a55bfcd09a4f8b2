// Package model loads and evaluates the trained regression forest. The
// artifact is a JSON document holding a list of trees, each serialized as a
// flat node array, plus metadata about the training run. The forest is read
// once at startup and is immutable afterwards.
package model

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TreeNode is one node of a serialized regression tree. Internal nodes route
// on FeatureIdx against Threshold; leaves carry the predicted value.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// Forest is the loaded regression model. Predictions are the mean of the
// per-tree leaf values, matching how the forest was trained.
type Forest struct {
	Version      string       `json:"version"`
	TrainedAt    time.Time    `json:"trained_at"`
	FeatureCount int          `json:"feature_count"`
	Trees        [][]TreeNode `json:"trees"`
}

// Load reads and validates the forest artifact at path. A missing or
// structurally invalid artifact is an error; the caller is expected to treat
// it as fatal since the process cannot serve predictions without a model.
func Load(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("model artifact %s: %w", path, err)
	}
	return &f, nil
}

func (f *Forest) validate() error {
	if f.FeatureCount <= 0 {
		return fmt.Errorf("feature_count must be positive, got %d", f.FeatureCount)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for ti, nodes := range f.Trees {
		if len(nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range nodes {
			if n.IsLeaf {
				continue
			}
			if n.FeatureIdx < 0 || n.FeatureIdx >= f.FeatureCount {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, n.FeatureIdx)
			}
			if n.LeftChild < 0 || n.LeftChild >= len(nodes) {
				return fmt.Errorf("tree %d node %d: left child %d out of range", ti, ni, n.LeftChild)
			}
			if n.RightChild < 0 || n.RightChild >= len(nodes) {
				return fmt.Errorf("tree %d node %d: right child %d out of range", ti, ni, n.RightChild)
			}
		}
	}
	return nil
}

// Predict evaluates the forest on a single feature vector and returns the
// mean of the per-tree predictions. The vector width must match the width the
// forest was trained on.
func (f *Forest) Predict(features []float64) (float64, error) {
	if len(features) != f.FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", f.FeatureCount, len(features))
	}

	var sum float64
	for ti, nodes := range f.Trees {
		v, err := evalTree(nodes, features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", ti, err)
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}

func evalTree(nodes []TreeNode, features []float64) (float64, error) {
	idx := 0
	// Each step descends one level, so the node count bounds the walk and a
	// malformed cycle cannot loop forever.
	for steps := 0; steps <= len(nodes); steps++ {
		node := nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, fmt.Errorf("no leaf reached after %d steps", len(nodes))
}
