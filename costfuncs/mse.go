package costfuncs

import "math"

type mse struct{}

// MSE returns the mean squared error between probs and the one-hot encoding of the true class.
func MSE() mse {
	return mse{}
}

// L2 is a proxy for MSE
func L2() mse {
	return MSE()
}

func (m mse) TypeString() string {
	return "mse"
}

func diff(probs []float64, target, i int) float64 {
	if i == target {
		return probs[i] - 1
	}
	return probs[i]
}

func (m mse) Cost(probs []float64, target int) float64 {
	var sum float64
	for i := range probs {
		sum += math.Pow(diff(probs, target, i), 2)
	}

	return sum / float64(len(probs))
}

// the softmax Jacobian is p_j(δ_ij - p_i), so dC/dz_j = (2/n) p_j (d_j - Σ_i d_i p_i)
func (m mse) Deriv(probs []float64, target int, ret func(int, float64)) {
	n := float64(len(probs))

	var dot float64
	for i, p := range probs {
		dot += diff(probs, target, i) * p
	}

	for j, p := range probs {
		ret(j, 2/n*p*(diff(probs, target, j)-dot))
	}
}
