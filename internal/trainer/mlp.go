package trainer

import "math/rand"

// MLP is a one-hidden-layer feed-forward classifier with sigmoid
// activations, trained by plain backpropagation. It expects standardized
// features.
type MLP struct {
	InputToHidden  [][]float64 `json:"input_to_hidden"`
	HiddenToOutput []float64   `json:"hidden_to_output"`
	HiddenBiases   []float64   `json:"hidden_biases"`
	OutputBias     float64     `json:"output_bias"`
	HiddenSize     int         `json:"hidden_size"`
	Epochs         int         `json:"epochs"`
	LR             float64     `json:"lr"`
	Seed           int64       `json:"seed"`
}

func NewMLP(hiddenSize, epochs int, lr float64, seed int64) *MLP {
	return &MLP{HiddenSize: hiddenSize, Epochs: epochs, LR: lr, Seed: seed}
}

func (m *MLP) Family() string { return FamilyMLP }

func (m *MLP) Fit(X [][]float64, y []int) {
	rng := rand.New(rand.NewSource(m.Seed))
	dims := len(X[0])
	m.InputToHidden = make([][]float64, dims)
	for i := range m.InputToHidden {
		m.InputToHidden[i] = make([]float64, m.HiddenSize)
		for j := range m.InputToHidden[i] {
			m.InputToHidden[i][j] = (rng.Float64() - 0.5) * 0.1
		}
	}
	m.HiddenToOutput = make([]float64, m.HiddenSize)
	m.HiddenBiases = make([]float64, m.HiddenSize)
	for j := range m.HiddenToOutput {
		m.HiddenToOutput[j] = (rng.Float64() - 0.5) * 0.1
		m.HiddenBiases[j] = (rng.Float64() - 0.5) * 0.1
	}
	m.OutputBias = (rng.Float64() - 0.5) * 0.1

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}
	hidden := make([]float64, m.HiddenSize)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		// Sample order varies per epoch; the row ordering of the dataset
		// itself is untouched.
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			row := X[idx]
			out := m.forward(row, hidden)
			outErr := out - float64(y[idx])
			outDelta := outErr * out * (1 - out)
			for j := 0; j < m.HiddenSize; j++ {
				hiddenDelta := outDelta * m.HiddenToOutput[j] * hidden[j] * (1 - hidden[j])
				m.HiddenToOutput[j] -= m.LR * outDelta * hidden[j]
				for i, v := range row {
					m.InputToHidden[i][j] -= m.LR * hiddenDelta * v
				}
				m.HiddenBiases[j] -= m.LR * hiddenDelta
			}
			m.OutputBias -= m.LR * outDelta
		}
	}
}

func (m *MLP) PredictProba(x []float64) float64 {
	hidden := make([]float64, m.HiddenSize)
	return m.forward(x, hidden)
}

func (m *MLP) forward(x []float64, hidden []float64) float64 {
	for j := 0; j < m.HiddenSize; j++ {
		z := m.HiddenBiases[j]
		for i, v := range x {
			if i < len(m.InputToHidden) {
				z += v * m.InputToHidden[i][j]
			}
		}
		hidden[j] = sigmoid(z)
	}
	z := m.OutputBias
	for j, h := range hidden {
		z += h * m.HiddenToOutput[j]
	}
	return sigmoid(z)
}
