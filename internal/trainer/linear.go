package trainer

// Logistic is an L2-regularized logistic regression trained with batch
// gradient descent. It expects standardized features.
type Logistic struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Epochs  int       `json:"epochs"`
	LR      float64   `json:"lr"`
	L2      float64   `json:"l2"`
}

func NewLogistic(epochs int, lr, l2 float64) *Logistic {
	return &Logistic{Epochs: epochs, LR: lr, L2: l2}
}

func (l *Logistic) Family() string { return FamilyLogistic }

func (l *Logistic) Fit(X [][]float64, y []int) {
	n := len(X)
	dims := len(X[0])
	l.Weights = make([]float64, dims)
	l.Bias = 0
	grad := make([]float64, dims)
	for epoch := 0; epoch < l.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		var biasGrad float64
		for i, row := range X {
			err := sigmoid(l.score(row)) - float64(y[i])
			for j, v := range row {
				grad[j] += err * v
			}
			biasGrad += err
		}
		scale := l.LR / float64(n)
		for j := range l.Weights {
			l.Weights[j] -= scale*grad[j] + l.LR*l.L2*l.Weights[j]
		}
		l.Bias -= scale * biasGrad
	}
}

func (l *Logistic) PredictProba(x []float64) float64 {
	return sigmoid(l.score(x))
}

func (l *Logistic) score(x []float64) float64 {
	z := l.Bias
	for j, w := range l.Weights {
		if j < len(x) {
			z += w * x[j]
		}
	}
	return z
}
