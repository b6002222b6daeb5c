package trainer

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a CART tree. Leaf nodes carry Value: the positive
// class fraction for classification trees, the fitted residual for
// regression trees used inside boosting.
type treeNode struct {
	Feature int       `json:"feature"`
	Split   float64   `json:"split"`
	Left    *treeNode `json:"left,omitempty"`
	Right   *treeNode `json:"right,omitempty"`
	Leaf    bool      `json:"leaf"`
	Value   float64   `json:"value"`
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] <= n.Split {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

type treeParams struct {
	maxDepth int
	minLeaf  int
	// mtry is the number of features considered per split; 0 means all.
	mtry int
	rng  *rand.Rand
}

// growClassTree builds a gini-split tree over float targets in {0,1}.
// Targets are passed as float64 so the same grower serves boosting's
// regression use via growRegTree.
func growClassTree(X [][]float64, y []float64, p treeParams, depth int) *treeNode {
	return grow(X, y, p, depth, giniImpurity)
}

// growRegTree builds a variance-split regression tree.
func growRegTree(X [][]float64, y []float64, p treeParams, depth int) *treeNode {
	return grow(X, y, p, depth, variance)
}

func grow(X [][]float64, y []float64, p treeParams, depth int, impurity func([]float64) float64) *treeNode {
	if len(X) == 0 {
		return &treeNode{Leaf: true, Value: 0.5}
	}
	if depth >= p.maxDepth || len(X) < 2*p.minLeaf || pure(y) {
		return &treeNode{Leaf: true, Value: mean(y)}
	}
	feature, split, ok := bestSplit(X, y, p, impurity)
	if !ok {
		return &treeNode{Leaf: true, Value: mean(y)}
	}
	lx, ly, rx, ry := partition(X, y, feature, split)
	if len(lx) < p.minLeaf || len(rx) < p.minLeaf {
		return &treeNode{Leaf: true, Value: mean(y)}
	}
	return &treeNode{
		Feature: feature,
		Split:   split,
		Left:    grow(lx, ly, p, depth+1, impurity),
		Right:   grow(rx, ry, p, depth+1, impurity),
	}
}

func bestSplit(X [][]float64, y []float64, p treeParams, impurity func([]float64) float64) (int, float64, bool) {
	dims := len(X[0])
	features := make([]int, dims)
	for i := range features {
		features[i] = i
	}
	if p.mtry > 0 && p.mtry < dims && p.rng != nil {
		p.rng.Shuffle(dims, func(i, j int) { features[i], features[j] = features[j], features[i] })
		features = features[:p.mtry]
	}
	parent := impurity(y)
	total := float64(len(y))
	bestGain := 1e-9
	bestFeature, bestValue, found := 0, 0.0, false
	for _, f := range features {
		for _, split := range splitPoints(X, f) {
			_, ly, _, ry := partition(X, y, f, split)
			if len(ly) == 0 || len(ry) == 0 {
				continue
			}
			weighted := (float64(len(ly))*impurity(ly) + float64(len(ry))*impurity(ry)) / total
			if gain := parent - weighted; gain > bestGain {
				bestGain, bestFeature, bestValue, found = gain, f, split, true
			}
		}
	}
	return bestFeature, bestValue, found
}

// splitPoints returns candidate thresholds as midpoints between distinct
// sorted values, capped to keep small-dataset training cheap.
func splitPoints(X [][]float64, feature int) []float64 {
	vals := make([]float64, 0, len(X))
	for _, row := range X {
		vals = append(vals, row[feature])
	}
	sort.Float64s(vals)
	points := make([]float64, 0, len(vals))
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[i-1] {
			points = append(points, (vals[i]+vals[i-1])/2)
		}
	}
	const maxPoints = 32
	if len(points) > maxPoints {
		step := len(points) / maxPoints
		sampled := make([]float64, 0, maxPoints)
		for i := 0; i < len(points); i += step {
			sampled = append(sampled, points[i])
		}
		points = sampled
	}
	return points
}

func partition(X [][]float64, y []float64, feature int, split float64) (lx [][]float64, ly []float64, rx [][]float64, ry []float64) {
	for i, row := range X {
		if row[feature] <= split {
			lx = append(lx, row)
			ly = append(ly, y[i])
		} else {
			rx = append(rx, row)
			ry = append(ry, y[i])
		}
	}
	return
}

func giniImpurity(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	p := mean(y)
	return 2 * p * (1 - p)
}

func variance(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	m := mean(y)
	var sum float64
	for _, v := range y {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(y))
}

func mean(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for _, v := range y {
		sum += v
	}
	return sum / float64(len(y))
}

func pure(y []float64) bool {
	for i := 1; i < len(y); i++ {
		if y[i] != y[0] {
			return false
		}
	}
	return true
}
