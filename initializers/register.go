// Package initializers sets the starting weights of models.
package initializers

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// Initializer sets the starting values of a block of weights. fanIn and fanOut are the number of
// inputs and outputs the block connects.
type Initializer interface {
	Set(ws []float64, fanIn, fanOut int)
}

// default values, because 'default' is a keyword
var defaultValue map[string]float64

var list map[string]func(src *rand.Rand) Initializer

func init() {
	defaultValue = map[string]float64{
		"uniform-lower": -1,
		"uniform-upper": 1,
		"normal-mean":   0,
		"normal-sd":     1,
		"varscl-factor": 1,
	}

	list = map[string]func(*rand.Rand) Initializer{
		"zeros":   func(*rand.Rand) Initializer { return Zeros() },
		"uniform": func(src *rand.Rand) Initializer { return Random(Uniform(src)) },
		"normal":  func(src *rand.Rand) Initializer { return Random(Normal(src)) },
		"lecun":   func(src *rand.Rand) Initializer { return LeCun(src) },
		"he":      func(src *rand.Rand) Initializer { return He(src) },
		"xavier":  func(src *rand.Rand) Initializer { return Xavier(src) },
	}
}

// SetDefault changes one of the default values used by newly constructed RNGs and Initializers.
// The names are "uniform-lower", "uniform-upper", "normal-mean", "normal-sd" and "varscl-factor".
func SetDefault(name string, value float64) error {
	if _, ok := defaultValue[name]; !ok {
		return errors.Errorf("Value with name %q does not exist", name)
	} else if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Value is invalid (%v)", value)
	}

	defaultValue[name] = value
	return nil
}

// ByName returns the registered Initializer with the given name, drawing from src. If name is
// empty, "xavier" is used.
func ByName(name string, src *rand.Rand) (Initializer, error) {
	if name == "" {
		name = "xavier"
	}

	f, ok := list[name]
	if !ok {
		return nil, errors.Errorf("No Initializer registered with name %q", name)
	}

	return f(src), nil
}

// Names returns the names of every registered Initializer, sorted.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}
