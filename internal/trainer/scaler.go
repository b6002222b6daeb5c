package trainer

import "math"

// Scaler standardizes features to zero mean and unit variance. It is fitted
// on training rows only and shipped with the artifact so serving applies the
// exact same transform.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes column means and standard deviations. Constant columns
// get std 1 so the transform is a no-op for them.
func FitScaler(X [][]float64) *Scaler {
	if len(X) == 0 {
		return &Scaler{}
	}
	dims := len(X[0])
	mean := make([]float64, dims)
	std := make([]float64, dims)
	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range mean {
		mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}
	return &Scaler{Mean: mean, Std: std}
}

// Transform returns standardized copies of the rows.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	if s == nil || len(s.Mean) == 0 {
		return X
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow standardizes a single vector.
func (s *Scaler) TransformRow(row []float64) []float64 {
	if s == nil || len(s.Mean) == 0 {
		return row
	}
	out := make([]float64, len(row))
	for j, v := range row {
		if j < len(s.Mean) {
			out[j] = (v - s.Mean[j]) / s.Std[j]
		} else {
			out[j] = v
		}
	}
	return out
}
