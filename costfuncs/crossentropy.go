package costfuncs

import "math"

// Epsilon is the smallest probability taken into a log, so that a confident mistake has a large
// but finite cost.
const Epsilon float64 = 1e-12

type crossEntropy struct{}

// CrossEntropy returns the negative log likelihood of the true class.
func CrossEntropy() crossEntropy {
	return crossEntropy{}
}

// NegativeLog is a proxy for CrossEntropy
func NegativeLog() crossEntropy {
	return CrossEntropy()
}

func (c crossEntropy) TypeString() string {
	return "cross-entropy"
}

func (c crossEntropy) Cost(probs []float64, target int) float64 {
	return -math.Log(math.Max(probs[target], Epsilon))
}

func (c crossEntropy) Deriv(probs []float64, target int, ret func(int, float64)) {
	for i, p := range probs {
		if i == target {
			p -= 1
		}
		ret(i, p)
	}
}
