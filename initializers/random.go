package initializers

type random struct {
	RNG
}

// Random returns an Initializer that uses the provided RNG to generate the weights. There is no
// scaling beyond that of the RNG.
func Random(g RNG) random {
	return random{g}
}

func (r random) Set(ws []float64, fanIn, fanOut int) {
	for i := range ws {
		ws[i] = r.Gen()
	}
}

type zeros struct{}

// Zeros returns an Initializer that sets every weight to 0.
func Zeros() zeros {
	return zeros{}
}

func (zeros) Set(ws []float64, fanIn, fanOut int) {
	for i := range ws {
		ws[i] = 0
	}
}
