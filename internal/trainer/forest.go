package trainer

import (
	"math"
	"math/rand"
)

// RandomForest is a bagged ensemble of gini-split CART trees with per-split
// feature subsampling.
type RandomForest struct {
	Trees    []*treeNode `json:"trees"`
	NumTrees int         `json:"num_trees"`
	MaxDepth int         `json:"max_depth"`
	MinLeaf  int         `json:"min_leaf"`
	Seed     int64       `json:"seed"`
}

func NewRandomForest(numTrees, maxDepth, minLeaf int, seed int64) *RandomForest {
	return &RandomForest{NumTrees: numTrees, MaxDepth: maxDepth, MinLeaf: minLeaf, Seed: seed}
}

func (f *RandomForest) Family() string { return FamilyRandomForest }

func (f *RandomForest) Fit(X [][]float64, y []int) {
	rng := rand.New(rand.NewSource(f.Seed))
	targets := intsToFloats(y)
	mtry := int(math.Sqrt(float64(len(X[0]))))
	if mtry < 1 {
		mtry = 1
	}
	f.Trees = make([]*treeNode, 0, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		bx, by := bootstrap(X, targets, rng)
		params := treeParams{maxDepth: f.MaxDepth, minLeaf: f.MinLeaf, mtry: mtry, rng: rng}
		f.Trees = append(f.Trees, growClassTree(bx, by, params, 0))
	}
}

func (f *RandomForest) PredictProba(x []float64) float64 {
	if len(f.Trees) == 0 {
		return 0.5
	}
	var sum float64
	for _, tree := range f.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.Trees))
}

func bootstrap(X [][]float64, y []float64, rng *rand.Rand) ([][]float64, []float64) {
	n := len(X)
	bx := make([][]float64, n)
	by := make([]float64, n)
	for i := 0; i < n; i++ {
		j := rng.Intn(n)
		bx[i] = X[j]
		by[i] = y[j]
	}
	return bx, by
}

func intsToFloats(y []int) []float64 {
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = float64(v)
	}
	return out
}
