// Package penalties provides weight regularization, applied by adding to each weight's gradient.
package penalties

import (
	"sort"

	"github.com/pkg/errors"
)

// Penalty adjusts the gradient of a weight to discourage large weights.
type Penalty interface {
	// TypeString returns the name the Penalty is registered under
	TypeString() string

	// Penalize returns the gradient with the penalty applied, given the current weight
	Penalize(w, grad float64) float64
}

var list map[string]func(λ, α float64) Penalty

func init() {
	list = map[string]func(float64, float64) Penalty{
		None().TypeString():           func(float64, float64) Penalty { return None() },
		L1(0).TypeString():             func(λ, _ float64) Penalty { return L1(λ) },
		L2(0).TypeString():             func(λ, _ float64) Penalty { return L2(λ) },
		ElasticNet(0, 0).TypeString(): func(λ, α float64) Penalty { return ElasticNet(α, λ) },
	}
}

// New returns the registered Penalty with the given name. λ is the strength of the penalty; α is
// only used by "elastic-net". If name is empty, "none" is used.
func New(name string, λ, α float64) (Penalty, error) {
	if name == "" {
		name = None().TypeString()
	}

	f, ok := list[name]
	if !ok {
		return nil, errors.Errorf("No Penalty registered with name %q", name)
	} else if λ < 0 {
		return nil, errors.Errorf("Penalty strength must be >= 0 (got %v)", λ)
	} else if α < 0 || α > 1 {
		return nil, errors.Errorf("Elastic net ratio must be in [0, 1] (got %v)", α)
	}

	return f(λ, α), nil
}

// Names returns the names of every registered Penalty, sorted.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}

type none struct{}

// None returns a Penalty that leaves gradients unchanged.
func None() none {
	return none{}
}

func (none) TypeString() string {
	return "none"
}

func (none) Penalize(w, grad float64) float64 {
	return grad
}
