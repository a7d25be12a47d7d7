package hyperparams

import "sort"

type stepper []Point

// Step returns a HyperParameter that starts at base and changes at each Point given to Add.
func Step(base float64) *stepper {
	st := stepper([]Point{{0, base}})
	return &st
}

// Add adds a step to the HyperParameter. Steps may be added in any order.
func (s *stepper) Add(iter int, value float64) *stepper {
	*s = append(*s, Point{iter, value})
	sort.SliceStable(*s, func(i, j int) bool { return (*s)[i].Iter < (*s)[j].Iter })
	return s
}

func (s *stepper) TypeString() string {
	return "step"
}

func (s *stepper) Value(iter int) float64 {
	sl := []Point(*s)
	for i := 1; i < len(sl); i++ {
		if sl[i].Iter > iter {
			return sl[i-1].Val
		}
	}

	return sl[len(sl)-1].Val
}
