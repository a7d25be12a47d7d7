package penalties

import "math"

// **********************************************
// L1 (Lasso)
// **********************************************

type l1 float64

// λ is a small value close to 0 where λ > 0
func L1(λ float64) l1 {
	return l1(λ)
}

// λ is a small value close to 0 where λ > 0
func Lasso(λ float64) l1 {
	return L1(λ)
}

func (p l1) TypeString() string {
	return "l1-lasso"
}

func (p l1) Penalize(w, grad float64) float64 {
	if w == 0 {
		return grad
	}
	return grad + float64(p)*math.Copysign(1, w)
}

// **********************************************
// L2 (Ridge)
// **********************************************

type l2 float64

// λ is a small value close to 0 where λ > 0
func L2(λ float64) l2 {
	return l2(λ)
}

// λ is a small value close to 0 where λ > 0
func Ridge(λ float64) l2 {
	return L2(λ)
}

func (p l2) TypeString() string {
	return "l2-ridge"
}

func (p l2) Penalize(w, grad float64) float64 {
	return grad + 2*float64(p)*w
}
