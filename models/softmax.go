package models

import (
	"io"
	"math"

	"github.com/pkg/errors"

	rc "github.com/sharnoff/relclass"
	"github.com/sharnoff/relclass/costfuncs"
)

func softmaxDefaults() Settings {
	return Settings{
		Epochs:          100,
		BatchSize:       512,
		KeepRate:        0.5,
		StatusEvery:     100,
		LearningRate:    0.5,
		Schedule:        "constant",
		Optimizer:       "sgd",
		Cost:            "cross-entropy",
		Penalty:         "l2-ridge",
		Lambda:          1e-5,
		PositionBuckets: 32,
		Init:            "xavier",
		Seed:            1,
	}
}

// Softmax is a linear classifier over single sentences.
type Softmax struct {
	*linear
}

// NewSoftmax returns an untrained Softmax model.
func NewSoftmax(s Settings, sh Shape) (rc.Model, error) {
	l, err := newLinear("softmax", s, sh)
	if err != nil {
		return nil, err
	}

	return &Softmax{l}, nil
}

// LoadSoftmax reads a Softmax model written by Save.
func LoadSoftmax(r io.Reader) (rc.Model, error) {
	l, err := loadLinear("softmax", r)
	if err != nil {
		return nil, err
	}

	return &Softmax{l}, nil
}

func (m *Softmax) check(b *rc.Batch) error {
	if b.Bagged() {
		return errors.Errorf("softmax can't classify bags, use softmax_mi")
	}

	return m.linear.check(b)
}

// Fit runs one optimizer step on the mean loss of the batch.
func (m *Softmax) Fit(b *rc.Batch, keepRate float64) (float64, error) {
	if err := m.check(b); err != nil {
		return 0, err
	}

	n := b.Len()
	if n == 0 {
		return 0, nil
	}

	grads := make(map[int]float64)
	var loss float64
	for i, y := range b.Y {
		fs := m.dropout(m.features(b, i), keepRate)
		ps := m.probs(fs)

		loss += m.cost.Cost(ps, int(y))
		m.accumulate(grads, fs, m.dz(ps, y), 1/float64(n))
	}

	m.apply(grads)
	return loss / float64(n), nil
}

func (m *Softmax) Evaluate(b *rc.Batch) (rc.Evaluation, error) {
	if err := m.check(b); err != nil {
		return rc.Evaluation{}, err
	}

	ev := rc.Evaluation{
		Predicted: make([]rc.Label, b.Len()),
		Probs:     m.rowProbs(b),
	}

	for i, ps := range ev.Probs {
		ev.Predicted[i] = rc.Label(rc.ArgMax(ps))
		ev.Loss += m.cost.Cost(ps, int(b.Y[i]))
	}

	if n := b.Len(); n != 0 {
		ev.Loss /= float64(n)
	}

	return ev, nil
}

// SoftmaxMI is the multi-instance version of Softmax. The class distribution of a bag is the mean
// of the distributions of its sentences.
type SoftmaxMI struct {
	*linear
}

func checkMICost(s Settings) error {
	if s.Cost != "" && s.Cost != costfuncs.CrossEntropy().TypeString() {
		return errors.Errorf("softmax_mi only supports %q cost (got %q)", costfuncs.CrossEntropy().TypeString(), s.Cost)
	}
	return nil
}

// NewSoftmaxMI returns an untrained SoftmaxMI model. Only the cross-entropy cost is supported.
func NewSoftmaxMI(s Settings, sh Shape) (rc.Model, error) {
	if err := checkMICost(s); err != nil {
		return nil, err
	}

	l, err := newLinear("softmax_mi", s, sh)
	if err != nil {
		return nil, err
	}

	return &SoftmaxMI{l}, nil
}

// LoadSoftmaxMI reads a SoftmaxMI model written by Save.
func LoadSoftmaxMI(r io.Reader) (rc.Model, error) {
	l, err := loadLinear("softmax_mi", r)
	if err != nil {
		return nil, err
	} else if err = checkMICost(l.settings); err != nil {
		return nil, err
	}

	return &SoftmaxMI{l}, nil
}

// MultiInstance always returns true
func (m *SoftmaxMI) MultiInstance() bool {
	return true
}

func (m *SoftmaxMI) check(b *rc.Batch) error {
	if err := m.linear.check(b); err != nil {
		return err
	}

	for i := 0; i < b.Len(); i++ {
		if start, end := b.Bag(i); start == end {
			return errors.Errorf("Bag %d is empty", i)
		}
	}

	return nil
}

func mean(rows [][]float64) []float64 {
	out := make([]float64, len(rows[0]))
	for _, r := range rows {
		for c, v := range r {
			out[c] += v
		}
	}

	for c := range out {
		out[c] /= float64(len(rows))
	}

	return out
}

// Fit runs one optimizer step on the mean bag loss. Single-instance batches are treated as bags of
// one sentence.
func (m *SoftmaxMI) Fit(b *rc.Batch, keepRate float64) (float64, error) {
	if err := m.check(b); err != nil {
		return 0, err
	}

	n := b.Len()
	if n == 0 {
		return 0, nil
	}

	grads := make(map[int]float64)
	var loss float64
	for i, y := range b.Y {
		start, end := b.Bag(i)
		k := end - start

		fss := make([][]feature, k)
		pss := make([][]float64, k)
		for j := range fss {
			fss[j] = m.dropout(m.features(b, start+j), keepRate)
			pss[j] = m.probs(fss[j])
		}

		bag := mean(pss)
		loss += m.cost.Cost(bag, int(y))

		// d(-log bag[y])/dz_j = p_j[y] / (k * bag[y]) * (p_j - onehot(y))
		py := math.Max(bag[y], costfuncs.Epsilon)
		for j, ps := range pss {
			w := ps[y] / (float64(k) * py)
			m.accumulate(grads, fss[j], m.dz(ps, y), w/float64(n))
		}
	}

	m.apply(grads)
	return loss / float64(n), nil
}

func (m *SoftmaxMI) Evaluate(b *rc.Batch) (rc.Evaluation, error) {
	if err := m.check(b); err != nil {
		return rc.Evaluation{}, err
	}

	rows := m.rowProbs(b)

	ev := rc.Evaluation{
		Predicted: make([]rc.Label, b.Len()),
		Probs:     make([][]float64, b.Len()),
	}

	for i, y := range b.Y {
		start, end := b.Bag(i)
		ev.Probs[i] = mean(rows[start:end])
		ev.Predicted[i] = rc.Label(rc.ArgMax(ev.Probs[i]))
		ev.Loss += m.cost.Cost(ev.Probs[i], int(y))
	}

	if n := b.Len(); n != 0 {
		ev.Loss /= float64(n)
	}

	return ev, nil
}
