package initializers

import (
	"math"
	"math/rand"
)

type varianceScaling struct {
	src *rand.Rand

	// either: "in", "out", "avg"
	mode   string
	factor float64
}

const defaultVarianceMode string = "avg"

// VarianceScaling returns the variance scaling initializer, which has 3 modes and a user-defined
// scaling factor. The three modes can be set by In, Out, and Avg. It defaults to Avg.
func VarianceScaling(src *rand.Rand) *varianceScaling {
	return &varianceScaling{src, defaultVarianceMode, defaultValue["varscl-factor"]}
}

// Factor sets the scaling factor to be used for the Initializer.
func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

// In sets the scaling to be based on the number of inputs.
func (v *varianceScaling) In() *varianceScaling {
	v.mode = "in"
	return v
}

// Out sets the scaling to be based on the number of outputs.
func (v *varianceScaling) Out() *varianceScaling {
	v.mode = "out"
	return v
}

// Avg sets the scaling to be based on the average of the numbers of inputs and outputs.
func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = "avg"
	return v
}

func (v *varianceScaling) scale(fanIn, fanOut int) float64 {
	var scale float64
	switch v.mode {
	case "in":
		scale = float64(fanIn)
	case "out":
		scale = float64(fanOut)
	default:
		scale = float64(fanIn+fanOut) / 2
	}

	if scale < 1 {
		scale = 1
	}
	return scale
}

func (v *varianceScaling) Set(ws []float64, fanIn, fanOut int) {
	gen := TruncNormal(v.src).SD(math.Sqrt(v.factor / v.scale(fanIn, fanOut)))

	for i := range ws {
		ws[i] = gen.Gen()
	}
}

// LeCun is VarianceScaling over the inputs.
func LeCun(src *rand.Rand) *varianceScaling {
	return VarianceScaling(src).In()
}

// He is VarianceScaling over the inputs, with a factor of 2.
func He(src *rand.Rand) *varianceScaling {
	return VarianceScaling(src).In().Factor(2)
}

// Xavier is VarianceScaling over the average of inputs and outputs.
func Xavier(src *rand.Rand) *varianceScaling {
	return VarianceScaling(src).Avg()
}

// Glorot is another name for Xavier
func Glorot(src *rand.Rand) *varianceScaling {
	return Xavier(src)
}
