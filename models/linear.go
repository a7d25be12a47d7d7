package models

import (
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	rc "github.com/sharnoff/relclass"
	"github.com/sharnoff/relclass/costfuncs"
	"github.com/sharnoff/relclass/hyperparams"
	"github.com/sharnoff/relclass/initializers"
	"github.com/sharnoff/relclass/optimizers"
	"github.com/sharnoff/relclass/penalties"
	"github.com/sharnoff/relclass/utils"
)

// feature is a single active input to the linear layer
type feature struct {
	index int
	value float64
}

// linear is a softmax classifier over sparse sentence features. It is the shared core of Softmax
// and SoftmaxMI.
//
// The feature space is made of five blocks: the bag of tokens in the sentence, the token at the
// first entity, the token at the second entity, the bag of tokens between the entities, and the
// bucketed distance between the entities. A bias feature comes last.
type linear struct {
	arch     string
	settings Settings
	shape    Shape

	// dims indexes weights as [feature, class]
	dims    *utils.MultiDim
	weights []float64

	// iter is the number of calls to Fit so far, used for the learning rate schedule
	iter int

	lr   hyperparams.HyperParameter
	opt  optimizers.Optimizer
	pen  penalties.Penalty
	cost costfuncs.CostFunction
	rng  *rand.Rand
}

func newLinear(arch string, s Settings, sh Shape) (*linear, error) {
	l := &linear{arch: arch, settings: s, shape: sh}
	if err := l.setup(); err != nil {
		return nil, err
	}

	in, err := initializers.ByName(s.Init, l.rng)
	if err != nil {
		return nil, err
	}

	in.Set(l.weights, l.numFeatures(), sh.ClassNum)
	return l, nil
}

// setup builds everything but the values of the weights
func (l *linear) setup() error {
	if err := l.settings.Validate(); err != nil {
		return err
	} else if err = l.shape.validate(); err != nil {
		return err
	}

	var err error
	if l.dims, err = utils.NewMultiDim(l.numFeatures(), l.shape.ClassNum); err != nil {
		return err
	}
	l.weights = make([]float64, l.dims.Size())

	s := l.settings
	if l.lr, err = hyperparams.New(s.Schedule, s.LearningRate, s.Steps); err != nil {
		return err
	} else if l.opt, err = optimizers.ByName(s.Optimizer); err != nil {
		return err
	} else if l.pen, err = penalties.New(s.Penalty, s.Lambda, s.Alpha); err != nil {
		return err
	} else if l.cost, err = costfuncs.ByName(s.Cost); err != nil {
		return err
	}

	l.rng = rand.New(rand.NewSource(s.Seed))
	return nil
}

func (l *linear) numFeatures() int {
	return 4*l.shape.VocabSize + l.settings.PositionBuckets + 1
}

// entities returns the token indexes of the two entities of an arena row, falling back to the
// position features if the indexes aren't given. Either may be -1.
func (l *linear) entities(b *rc.Batch, row int) (e1, e2 int) {
	e1, e2 = -1, -1
	if row < len(b.E1) {
		e1 = b.E1[row]
	}
	if row < len(b.E2) {
		e2 = b.E2[row]
	}

	if e1 < 0 && row < len(b.Pos1) {
		e1 = rc.Locate(b.Pos1[row], l.shape.PositionOffset)
	}
	if e2 < 0 && row < len(b.Pos2) {
		e2 = rc.Locate(b.Pos2[row], l.shape.PositionOffset)
	}

	return
}

// features gives the active features of an arena row. Token ids outside of the vocabulary are
// ignored.
func (l *linear) features(b *rc.Batch, row int) []feature {
	v := l.shape.VocabSize
	x := b.X[row]

	fs := make([]feature, 0, 2*len(x)+4)
	add := func(base, id int) {
		if id >= 0 && id < v {
			fs = append(fs, feature{base + id, 1})
		}
	}

	for _, id := range x {
		add(0, id)
	}

	e1, e2 := l.entities(b, row)
	if e1 >= 0 && e1 < len(x) {
		add(v, x[e1])
	}
	if e2 >= 0 && e2 < len(x) {
		add(2*v, x[e2])
	}

	if e1 >= 0 && e2 >= 0 {
		lo, hi := e1, e2
		if lo > hi {
			lo, hi = hi, lo
		}

		for k := lo + 1; k < hi && k < len(x); k++ {
			add(3*v, x[k])
		}

		if n := l.settings.PositionBuckets; n > 0 {
			d := hi - lo
			if d >= n {
				d = n - 1
			}
			fs = append(fs, feature{4*v + d, 1})
		}
	}

	// bias
	fs = append(fs, feature{4*v + l.settings.PositionBuckets, 1})
	return fs
}

// dropout keeps each feature but the bias with probability keep, scaling kept features by 1/keep
func (l *linear) dropout(fs []feature, keep float64) []feature {
	if keep >= 1 || keep <= 0 {
		return fs
	}

	out := fs[:0]
	for i, f := range fs {
		if i == len(fs)-1 {
			out = append(out, f)
		} else if l.rng.Float64() < keep {
			out = append(out, feature{f.index, f.value / keep})
		}
	}

	return out
}

func softmax(zs []float64) []float64 {
	max := math.Inf(-1)
	for _, z := range zs {
		max = math.Max(max, z)
	}

	ps := make([]float64, len(zs))
	var sum float64
	for i, z := range zs {
		ps[i] = math.Exp(z - max)
		sum += ps[i]
	}

	for i := range ps {
		ps[i] /= sum
	}

	return ps
}

func (l *linear) probs(fs []feature) []float64 {
	zs := make([]float64, l.shape.ClassNum)
	for _, f := range fs {
		for c := range zs {
			zs[c] += f.value * l.weights[l.dims.Index(f.index, c)]
		}
	}

	return softmax(zs)
}

// rowProbs gives the class distribution of every arena row in the batch
func (l *linear) rowProbs(b *rc.Batch) [][]float64 {
	out := make([][]float64, b.Rows())
	utils.MultiThread(0, b.Rows(), func(i int) {
		out[i] = l.probs(l.features(b, i))
	}, 32, 1)

	return out
}

// accumulate adds scale * dC/dw for every weight touched by fs, given dC/dz
func (l *linear) accumulate(grads map[int]float64, fs []feature, dz []float64, scale float64) {
	for _, f := range fs {
		for c, d := range dz {
			if d != 0 {
				grads[l.dims.Index(f.index, c)] += scale * f.value * d
			}
		}
	}
}

// apply runs one optimizer step on every weight with a gradient
func (l *linear) apply(grads map[int]float64) {
	idx := make([]int, 0, len(grads))
	for i := range grads {
		idx = append(idx, i)
	}
	sort.Ints(idx)

	grad := func(i int) float64 {
		w := idx[i]
		return l.pen.Penalize(l.weights[w], grads[w])
	}
	add := func(i int, v float64) {
		l.weights[idx[i]] += v
	}

	l.opt.Run(len(idx), grad, add, l.lr.Value(l.iter))
	l.iter++
}

func (l *linear) check(b *rc.Batch) error {
	if err := b.Validate(); err != nil {
		return err
	}

	for i, y := range b.Y {
		if y < 0 || int(y) >= l.shape.ClassNum {
			return errors.Errorf("Label %d of example %d is outside of [0, %d)", y, i, l.shape.ClassNum)
		}
	}

	return nil
}

// dz gives the derivative of the cost with respect to the logits
func (l *linear) dz(ps []float64, y rc.Label) []float64 {
	d := make([]float64, len(ps))
	l.cost.Deriv(ps, int(y), func(c int, v float64) { d[c] = v })
	return d
}

type savedLinear struct {
	Arch     string          `json:"arch"`
	Settings Settings        `json:"settings"`
	Shape    Shape           `json:"shape"`
	Dims     *utils.MultiDim `json:"dims"`
	Iter     int             `json:"iter"`
	Weights  []float64       `json:"weights"`
}

func (l *linear) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(savedLinear{
		Arch:     l.arch,
		Settings: l.settings,
		Shape:    l.shape,
		Dims:     l.dims,
		Iter:     l.iter,
		Weights:  l.weights,
	})
}

func loadLinear(arch string, r io.Reader) (*linear, error) {
	var sv savedLinear
	if err := json.NewDecoder(r).Decode(&sv); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode %s model", arch)
	} else if sv.Arch != arch {
		return nil, errors.Errorf("Saved model is %q, not %q", sv.Arch, arch)
	}

	l := &linear{arch: arch, settings: sv.Settings, shape: sv.Shape, iter: sv.Iter}
	if err := l.setup(); err != nil {
		return nil, errors.Wrapf(err, "Can't rebuild saved %s model", arch)
	}

	if len(sv.Weights) != len(l.weights) {
		return nil, errors.Errorf("Saved %s model has %d weights, expected %d", arch, len(sv.Weights), len(l.weights))
	}

	copy(l.weights, sv.Weights)
	l.rng = rand.New(rand.NewSource(sv.Settings.Seed + int64(sv.Iter)))
	return l, nil
}
