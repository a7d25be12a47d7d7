package models

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	rc "github.com/sharnoff/relclass"
	"github.com/sharnoff/relclass/costfuncs"
)

func majorityDefaults() Settings {
	return Settings{
		Epochs:    1,
		BatchSize: 512,
		KeepRate:  1,
	}
}

// Majority always predicts the label seen most often by Fit. Ties go to the lowest label. It is a
// baseline: anything learned should beat it.
type Majority struct {
	Counts []int `json:"counts"`
}

// NewMajority returns a Majority model for sh.ClassNum classes.
func NewMajority(s Settings, sh Shape) (rc.Model, error) {
	if err := sh.validate(); err != nil {
		return nil, err
	}

	return &Majority{Counts: make([]int, sh.ClassNum)}, nil
}

// LoadMajority reads a Majority model written by Save.
func LoadMajority(r io.Reader) (rc.Model, error) {
	m := new(Majority)
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode majority model")
	} else if len(m.Counts) == 0 {
		return nil, errors.Errorf("Saved majority model has no classes")
	}

	return m, nil
}

// probs gives the add-one smoothed label distribution
func (m *Majority) probs() []float64 {
	total := len(m.Counts)
	for _, c := range m.Counts {
		total += c
	}

	ps := make([]float64, len(m.Counts))
	for i, c := range m.Counts {
		ps[i] = float64(c+1) / float64(total)
	}

	return ps
}

func (m *Majority) loss(ps []float64, ys []rc.Label) float64 {
	if len(ys) == 0 {
		return 0
	}

	ce := costfuncs.CrossEntropy()

	var sum float64
	for _, y := range ys {
		sum += ce.Cost(ps, int(y))
	}

	return sum / float64(len(ys))
}

func (m *Majority) check(b *rc.Batch) error {
	for i, y := range b.Y {
		if y < 0 || int(y) >= len(m.Counts) {
			return errors.Errorf("Label %d of example %d is outside of [0, %d)", y, i, len(m.Counts))
		}
	}

	return nil
}

// Fit counts the labels in the batch. keepRate is ignored.
func (m *Majority) Fit(b *rc.Batch, keepRate float64) (float64, error) {
	if err := m.check(b); err != nil {
		return 0, err
	}

	for _, y := range b.Y {
		m.Counts[y]++
	}

	return m.loss(m.probs(), b.Y), nil
}

func (m *Majority) Evaluate(b *rc.Batch) (rc.Evaluation, error) {
	if err := m.check(b); err != nil {
		return rc.Evaluation{}, err
	}

	ps := m.probs()
	pred := rc.Label(rc.ArgMax(ps))

	ev := rc.Evaluation{
		Loss:      m.loss(ps, b.Y),
		Predicted: make([]rc.Label, b.Len()),
		Probs:     make([][]float64, b.Len()),
	}

	for i := range ev.Predicted {
		ev.Predicted[i] = pred
		ev.Probs[i] = append([]float64(nil), ps...)
	}

	return ev, nil
}

func (m *Majority) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}
