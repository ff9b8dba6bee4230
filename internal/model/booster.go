package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// treeNode is one node of an XGBoost JSON dump.
type treeNode struct {
	NodeID         int        `json:"nodeid"`
	Split          string     `json:"split"`
	SplitCondition float64    `json:"split_condition"`
	Yes            int        `json:"yes"`
	No             int        `json:"no"`
	Missing        int        `json:"missing"`
	Gain           float64    `json:"gain"`
	Leaf           *float64   `json:"leaf"`
	Children       []treeNode `json:"children"`
}

// flatNode is a node with its split feature resolved to an index.
type flatNode struct {
	feature   int
	threshold float64
	yes       int
	no        int
	missing   int
	leaf      float64
	isLeaf    bool
	gain      float64
}

type tree map[int]flatNode

// booster is a sum of regression trees.
type booster struct {
	baseScore float64
	trees     []tree
}

func parseBooster(data []byte, baseScore float64, features []string) (*booster, error) {
	var roots []treeNode
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("tree dump is empty")
	}

	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f] = i
	}

	b := &booster{baseScore: baseScore}
	for i := range roots {
		t := tree{}
		if err := flatten(&roots[i], index, len(features), t); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		b.trees = append(b.trees, t)
	}
	return b, nil
}

// flatten indexes a tree by node id.
func flatten(n *treeNode, index map[string]int, width int, t tree) error {
	if _, dup := t[n.NodeID]; dup {
		return fmt.Errorf("duplicate node id %d", n.NodeID)
	}
	if n.Leaf != nil {
		t[n.NodeID] = flatNode{leaf: *n.Leaf, isLeaf: true}
		return nil
	}

	feature, err := resolveFeature(n.Split, index, width)
	if err != nil {
		return err
	}
	t[n.NodeID] = flatNode{
		feature:   feature,
		threshold: n.SplitCondition,
		yes:       n.Yes,
		no:        n.No,
		missing:   n.Missing,
		gain:      n.Gain,
	}
	for i := range n.Children {
		if err := flatten(&n.Children[i], index, width, t); err != nil {
			return err
		}
	}
	return nil
}

// resolveFeature maps a split name to a vector index; "f3" style names are positional.
func resolveFeature(split string, index map[string]int, width int) (int, error) {
	if i, ok := index[split]; ok {
		return i, nil
	}
	if rest, ok := strings.CutPrefix(split, "f"); ok {
		if i, err := strconv.Atoi(rest); err == nil && i >= 0 && i < width {
			return i, nil
		}
	}
	return 0, fmt.Errorf("split on unknown feature %q", split)
}

func (b *booster) predict(features []float64) float64 {
	sum := b.baseScore
	for _, t := range b.trees {
		sum += t.eval(features)
	}
	return sum
}

func (t tree) eval(features []float64) float64 {
	id := 0
	for range len(t) {
		n, ok := t[id]
		if !ok {
			return 0
		}
		if n.isLeaf {
			return n.leaf
		}
		v := features[n.feature]
		switch {
		case math.IsNaN(v):
			id = n.missing
		case v < n.threshold:
			id = n.yes
		default:
			id = n.no
		}
	}
	return 0
}

// importance returns total gain per feature, or split counts when the dump carries no gain.
func (b *booster) importance(names []string) map[string]float64 {
	gain := make(map[string]float64)
	splits := make(map[string]float64)
	for _, t := range b.trees {
		for _, n := range t {
			if n.isLeaf {
				continue
			}
			name := names[n.feature]
			gain[name] += n.gain
			splits[name]++
		}
	}
	for _, g := range gain {
		if g > 0 {
			return gain
		}
	}
	return splits
}
