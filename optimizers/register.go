// Package optimizers turns gradients into weight updates.
package optimizers

import (
	"sort"

	"github.com/pkg/errors"
)

// Optimizer is called to suggest changes to each weight, given: the number of weights, the
// gradient at each weight, a function to add to each weight, and the learning rate.
type Optimizer interface {
	// TypeString returns the name the Optimizer is registered under
	TypeString() string

	Run(size int, grad func(int) float64, add func(int, float64), learningRate float64)
}

var list map[string]func() Optimizer

func init() {
	list = map[string]func() Optimizer{
		GradientDescent().TypeString(): func() Optimizer { return GradientDescent() },
		Clipped(0).TypeString():        func() Optimizer { return Clipped(DefaultClip) },
	}
}

// ByName returns the registered Optimizer with the given name. If name is empty, "sgd" is used.
func ByName(name string) (Optimizer, error) {
	if name == "" {
		name = GradientDescent().TypeString()
	}

	f, ok := list[name]
	if !ok {
		return nil, errors.Errorf("No Optimizer registered with name %q", name)
	}

	return f(), nil
}

// Names returns the names of every registered Optimizer, sorted.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}
