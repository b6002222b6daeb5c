package trainer

// Model is a binary classifier scoring P(label==1) for one feature vector.
// Implementations are plain structs with exported fields so a fitted model
// round-trips through the JSON artifact.
type Model interface {
	Family() string
	Fit(X [][]float64, y []int)
	PredictProba(x []float64) float64
}

// Family names, also used as the model_type in published metadata.
const (
	FamilyRandomForest  = "random_forest"
	FamilyGradientBoost = "gradient_boost"
	FamilyLogistic      = "logistic_regression"
	FamilyMLP           = "mlp"
	// FamilyGradientBoostDeep is the optional extra boosted family; it is
	// only in the candidate set when enabled by config.
	FamilyGradientBoostDeep = "gradient_boost_deep"
)

// candidate pairs a family constructor with whether it trains on
// standardized features. Trees consume raw features; linear and neural
// families standardize.
type candidate struct {
	family string
	scaled bool
	build  func(seed int64) Model
}

func candidateSet(extraBoost bool) []candidate {
	set := []candidate{
		{family: FamilyRandomForest, scaled: false, build: func(seed int64) Model {
			return NewRandomForest(50, 6, 2, seed)
		}},
		{family: FamilyGradientBoost, scaled: false, build: func(seed int64) Model {
			return NewGradientBoost(60, 3, 0.1, seed)
		}},
		{family: FamilyLogistic, scaled: true, build: func(seed int64) Model {
			return NewLogistic(500, 0.1, 1e-3)
		}},
		{family: FamilyMLP, scaled: true, build: func(seed int64) Model {
			return NewMLP(16, 200, 0.05, seed)
		}},
	}
	if extraBoost {
		set = append(set, candidate{family: FamilyGradientBoostDeep, scaled: false, build: func(seed int64) Model {
			return NewGradientBoost(120, 4, 0.05, seed).asDeep()
		}})
	}
	return set
}
