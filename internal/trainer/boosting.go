package trainer

import (
	"math"
	"math/rand"
)

// GradientBoost is a boosted ensemble of shallow regression trees fitted to
// the gradient of the logistic loss.
type GradientBoost struct {
	Trees        []*treeNode `json:"trees"`
	BasePred     float64     `json:"base_pred"`
	NumTrees     int         `json:"num_trees"`
	MaxDepth     int         `json:"max_depth"`
	LearningRate float64     `json:"learning_rate"`
	Seed         int64       `json:"seed"`
	family       string
}

func NewGradientBoost(numTrees, maxDepth int, learningRate float64, seed int64) *GradientBoost {
	return &GradientBoost{NumTrees: numTrees, MaxDepth: maxDepth, LearningRate: learningRate, Seed: seed}
}

// asDeep marks this instance as the optional deeper boosted family. The
// fitted state is identical in shape; only the reported family differs.
func (g *GradientBoost) asDeep() *GradientBoost {
	g.family = FamilyGradientBoostDeep
	return g
}

func (g *GradientBoost) Family() string {
	if g.family != "" {
		return g.family
	}
	return FamilyGradientBoost
}

func (g *GradientBoost) Fit(X [][]float64, y []int) {
	rng := rand.New(rand.NewSource(g.Seed))
	n := len(X)
	targets := intsToFloats(y)
	// Base score is the log-odds of the positive rate, clamped away from
	// the degenerate single-class endpoints.
	pos := mean(targets)
	pos = math.Min(math.Max(pos, 1e-3), 1-1e-3)
	g.BasePred = math.Log(pos / (1 - pos))

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.BasePred
	}
	residuals := make([]float64, n)
	g.Trees = make([]*treeNode, 0, g.NumTrees)
	for t := 0; t < g.NumTrees; t++ {
		for i := range residuals {
			residuals[i] = targets[i] - sigmoid(scores[i])
		}
		params := treeParams{maxDepth: g.MaxDepth, minLeaf: 2, rng: rng}
		tree := growRegTree(X, residuals, params, 0)
		g.Trees = append(g.Trees, tree)
		for i, row := range X {
			scores[i] += g.LearningRate * tree.predict(row)
		}
	}
}

func (g *GradientBoost) PredictProba(x []float64) float64 {
	score := g.BasePred
	for _, tree := range g.Trees {
		score += g.LearningRate * tree.predict(x)
	}
	return sigmoid(score)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
