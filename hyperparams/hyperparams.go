// Package hyperparams provides learning-rate schedules: values that may change with the training
// iteration.
package hyperparams

import (
	"sort"

	"github.com/pkg/errors"
)

// HyperParameter gives a value for each iteration of training. Iterations are counted in batches
// from the start of the run.
type HyperParameter interface {
	// TypeString returns the name the HyperParameter is registered under
	TypeString() string

	Value(iter int) float64
}

// Point is a single change in a step schedule: from iteration Iter onwards, the value is Val.
type Point struct {
	Iter int     `json:"iter" yaml:"iter"`
	Val  float64 `json:"value" yaml:"value"`
}

var list map[string]func(base float64, steps []Point) HyperParameter

func init() {
	list = map[string]func(float64, []Point) HyperParameter{
		Constant(0).TypeString(): func(base float64, _ []Point) HyperParameter { return Constant(base) },
		Step(0).TypeString(): func(base float64, steps []Point) HyperParameter {
			s := Step(base)
			for _, p := range steps {
				s.Add(p.Iter, p.Val)
			}
			return s
		},
	}
}

// New returns the registered HyperParameter with the given name, starting at base. steps are only
// used by "step".
func New(name string, base float64, steps []Point) (HyperParameter, error) {
	if name == "" {
		name = Constant(0).TypeString()
	}

	f, ok := list[name]
	if !ok {
		return nil, errors.Errorf("No HyperParameter registered with name %q", name)
	}

	return f(base, steps), nil
}

// Names returns the names of every registered HyperParameter, sorted.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}
