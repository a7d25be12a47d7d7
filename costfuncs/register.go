// Package costfuncs provides the losses that models minimise. Every CostFunction works on a class
// distribution produced by a softmax and gives its derivative with respect to the logits, so that
// models need not differentiate through the softmax themselves.
package costfuncs

import (
	"sort"

	"github.com/pkg/errors"
)

// CostFunction scores a class distribution against the true class.
type CostFunction interface {
	// TypeString returns the name the CostFunction is registered under
	TypeString() string

	// Cost returns the loss of probs, given the index of the true class
	Cost(probs []float64, target int) float64

	// Deriv calls ret with the derivative of the loss with respect to each logit that produced
	// probs
	Deriv(probs []float64, target int, ret func(int, float64))
}

var list map[string]func() CostFunction

func init() {
	list = map[string]func() CostFunction{
		CrossEntropy().TypeString(): func() CostFunction { return CrossEntropy() },
		MSE().TypeString():          func() CostFunction { return MSE() },
	}
}

// ByName returns the registered CostFunction with the given name. If name is empty,
// "cross-entropy" is used.
func ByName(name string) (CostFunction, error) {
	if name == "" {
		name = CrossEntropy().TypeString()
	}

	f, ok := list[name]
	if !ok {
		return nil, errors.Errorf("No CostFunction registered with name %q", name)
	}

	return f(), nil
}

// Names returns the names of every registered CostFunction, sorted.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}
