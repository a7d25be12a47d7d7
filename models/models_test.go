package models

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rc "github.com/sharnoff/relclass"
)

var toyShape = Shape{VocabSize: 6, ClassNum: 3, MaxSentenceLen: 3, PositionOffset: 10}

func toySettings() Settings {
	s := softmaxDefaults()
	s.KeepRate = 1
	s.Penalty = "none"
	s.Init = "zeros"
	s.PositionBuckets = 4
	return s
}

func inst(x ...int) rc.Instance {
	return rc.Instance{
		X:    x,
		Pos1: []int{10, 11, 12}[:len(x)],
		Pos2: []int{9, 10, 11}[:len(x)],
		E1:   0,
		E2:   1,
	}
}

// class c is marked by token c; tokens 3 to 5 are noise
func toyBatch(t *testing.T) *rc.Batch {
	insts := []rc.Instance{
		inst(0, 3, 4), inst(0, 5, 3), inst(0, 4),
		inst(1, 3, 4), inst(1, 5, 5), inst(1, 4),
		inst(2, 3, 4), inst(2, 5, 3), inst(2, 4),
	}
	ys := []rc.Label{0, 0, 0, 1, 1, 1, 2, 2, 2}

	b, err := rc.NewBatch(insts, ys)
	require.NoError(t, err)
	return b
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"majority", "softmax", "softmax_mi"}, Names())

	err := Register("softmax", Architecture{Defaults: softmaxDefaults, New: NewSoftmax})
	assert.Equal(t, ErrRegisterDuplicate, errors.Cause(err))

	err = Register("empty", Architecture{})
	assert.Equal(t, ErrIncompleteArch, errors.Cause(err))

	_, err = Lookup("cnn")
	assert.Equal(t, ErrUnknownArchitecture, errors.Cause(err))

	_, err = New("softmax", Settings{}, toyShape)
	assert.Error(t, err, "zero settings have no batch size")

	_, err = New("softmax", toySettings(), Shape{ClassNum: 2})
	assert.Error(t, err, "no vocabulary")
}

func TestMajority(t *testing.T) {
	m, err := New("majority", majorityDefaults(), toyShape)
	require.NoError(t, err)

	b, err := rc.NewBatch([]rc.Instance{inst(1), inst(2), inst(0), inst(0)}, []rc.Label{1, 2, 0, 0})
	require.NoError(t, err)

	_, err = m.Fit(b, 1)
	require.NoError(t, err)

	ev, err := m.Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, []rc.Label{0, 0, 0, 0}, ev.Predicted)
	require.Len(t, ev.Probs, 4)
	assert.InDelta(t, 3.0/7, ev.Probs[0][0], 1e-9)

	s, err := rc.Score(ev.Predicted, b.Y, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Macro.F1)

	var buf bytes.Buffer
	require.NoError(t, m.(rc.Saver).Save(&buf))

	loaded, err := Load("majority", &buf)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)

	bad, err := rc.NewBatch([]rc.Instance{inst(1)}, []rc.Label{3})
	require.NoError(t, err)
	_, err = m.Fit(bad, 1)
	assert.Error(t, err)
}

func TestSoftmaxLearns(t *testing.T) {
	m, err := New("softmax", toySettings(), toyShape)
	require.NoError(t, err)

	b := toyBatch(t)

	first, err := m.Fit(b, 1)
	require.NoError(t, err)

	var last float64
	for i := 0; i < 200; i++ {
		last, err = m.Fit(b, 1)
		require.NoError(t, err)
	}
	assert.True(t, last < first, "loss went from %v to %v", first, last)

	ev, err := m.Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, b.Y, ev.Predicted)

	s, err := rc.Score(ev.Predicted, b.Y, 3, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Macro.F1)

	for _, ps := range ev.Probs {
		var sum float64
		for _, p := range ps {
			sum += p
		}
		assert.InDelta(t, 1, sum, 1e-9)
	}
}

func TestSoftmaxSaveLoad(t *testing.T) {
	m, err := New("softmax", toySettings(), toyShape)
	require.NoError(t, err)

	b := toyBatch(t)
	for i := 0; i < 5; i++ {
		_, err = m.Fit(b, 1)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, m.(rc.Saver).Save(&buf))

	loaded, err := Load("softmax", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	want, err := m.Evaluate(b)
	require.NoError(t, err)
	got, err := loaded.Evaluate(b)
	require.NoError(t, err)

	assert.Equal(t, want.Predicted, got.Predicted)
	assert.InDelta(t, want.Loss, got.Loss, 1e-12)

	_, err = Load("softmax_mi", bytes.NewReader(buf.Bytes()))
	assert.Error(t, err, "architecture mismatch")
}

func TestSoftmaxDropoutSeeded(t *testing.T) {
	s := toySettings()
	s.KeepRate = 0.5
	s.Init = "xavier"

	a, err := New("softmax", s, toyShape)
	require.NoError(t, err)
	b, err := New("softmax", s, toyShape)
	require.NoError(t, err)

	batch := toyBatch(t)
	for i := 0; i < 3; i++ {
		la, err := a.Fit(batch, s.KeepRate)
		require.NoError(t, err)
		lb, err := b.Fit(batch, s.KeepRate)
		require.NoError(t, err)
		assert.Equal(t, la, lb)
	}

	assert.Equal(t, a.(*Softmax).weights, b.(*Softmax).weights)
}

func TestSoftmaxRejectsBags(t *testing.T) {
	m, err := New("softmax", toySettings(), toyShape)
	require.NoError(t, err)

	b := rc.FlattenBags([]rc.Bag{{Instances: []rc.Instance{inst(1)}, Y: 1}})
	_, err = m.Fit(b, 1)
	assert.Error(t, err)
	assert.False(t, rc.IsMultiInstance(m))
}

func TestSoftmaxMI(t *testing.T) {
	_, err := New("softmax_mi", func() Settings { s := toySettings(); s.Cost = "mse"; return s }(), toyShape)
	assert.Error(t, err)

	m, err := New("softmax_mi", toySettings(), toyShape)
	require.NoError(t, err)
	assert.True(t, rc.IsMultiInstance(m))

	// each bag has one sentence holding its class token among noise sentences
	b := rc.FlattenBags([]rc.Bag{
		{Instances: []rc.Instance{inst(0, 3), inst(4, 5)}, Y: 0},
		{Instances: []rc.Instance{inst(3, 4), inst(1, 5), inst(5)}, Y: 1},
		{Instances: []rc.Instance{inst(2, 4)}, Y: 2},
	})
	assert.Equal(t, []int{0, 2, 5, 6}, b.Offsets)

	for i := 0; i < 300; i++ {
		_, err = m.Fit(b, 1)
		require.NoError(t, err)
	}

	ev, err := m.Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, b.Y, ev.Predicted)
	assert.Len(t, ev.Probs, 3)

	empty := rc.FlattenBags([]rc.Bag{{Y: 1}})
	_, err = m.Evaluate(empty)
	assert.Error(t, err)
}
