package optimizers

import "math"

type gradientdescent int8

// GradientDescent returns plain stochastic gradient descent.
func GradientDescent() gradientdescent {
	return gradientdescent(0)
}

func (g gradientdescent) TypeString() string {
	return "sgd"
}

func (g gradientdescent) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) {
	for i := 0; i < size; i++ {
		add(i, -1*learningRate*grad(i))
	}
}

// DefaultClip is the bound used by the registered "sgd-clip" Optimizer.
const DefaultClip float64 = 5

type clipped float64

// Clipped returns gradient descent where every gradient is first clamped to [-bound, bound].
func Clipped(bound float64) clipped {
	return clipped(bound)
}

func (c clipped) TypeString() string {
	return "sgd-clip"
}

func (c clipped) Run(size int, grad func(int) float64, add func(int, float64), learningRate float64) {
	b := float64(c)
	for i := 0; i < size; i++ {
		g := math.Max(-b, math.Min(b, grad(i)))
		add(i, -1*learningRate*g)
	}
}
