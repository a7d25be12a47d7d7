package relclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreScenario(t *testing.T) {
	truth := []Label{0, 1, 1, 2, 0}
	predicted := []Label{0, 1, 2, 2, 1}

	s, err := Score(predicted, truth, 3, true)
	require.NoError(t, err)
	require.Len(t, s.Rows, 3)

	r1 := s.Rows[1]
	assert.Equal(t, []int{1, 0, 1}, []int{r1.TP, r1.FP, r1.FN})
	assert.InDelta(t, 1, r1.Precision, 1e-9)
	assert.InDelta(t, 0.5, r1.Recall, 1e-9)
	assert.InDelta(t, 2.0/3, r1.F1, 1e-9)

	r2 := s.Rows[2]
	assert.Equal(t, []int{1, 1, 0}, []int{r2.TP, r2.FP, r2.FN})
	assert.InDelta(t, 0.5, r2.Precision, 1e-9)
	assert.InDelta(t, 1, r2.Recall, 1e-9)
	assert.InDelta(t, 2.0/3, r2.F1, 1e-9)

	assert.InDelta(t, 2.0/3, s.Macro.F1, 1e-9)
	assert.InDelta(t, 2.0/3, s.Micro.Precision, 1e-9)
	assert.InDelta(t, 2.0/3, s.Micro.Recall, 1e-9)
	assert.InDelta(t, 2.0/3, s.Micro.F1, 1e-9)

	assert.Len(t, s.Selected(), 2)
	assert.Equal(t, 3, s.ClassNum())
}

func TestScoreExcludeNegative(t *testing.T) {
	// class 0 is the only class with any errors
	truth := []Label{0, 0, 1, 2}
	predicted := []Label{1, 2, 1, 2}

	with, err := Score(predicted, truth, 3, false)
	require.NoError(t, err)
	without, err := Score(predicted, truth, 3, true)
	require.NoError(t, err)

	assert.Len(t, with.Selected(), 3)
	assert.Len(t, without.Selected(), 2)

	// class 0's FN never reaches the micro sums when excluded
	assert.InDelta(t, 1, without.Micro.Recall, 1e-9)
	assert.InDelta(t, 0.5, with.Micro.Recall, 1e-9)

	// nor do negative examples count as false positives
	assert.Equal(t, 1, with.Rows[1].FP)
	assert.Equal(t, 0, without.Rows[1].FP)
	assert.InDelta(t, 1, without.Micro.Precision, 1e-9)
	assert.InDelta(t, 0.5, with.Micro.Precision, 1e-9)

	assert.Equal(t, with.Rows[0], without.Rows[0])
}

func TestScoreSingleClass(t *testing.T) {
	truth := []Label{0, 1, 1, 0, 1}
	predicted := []Label{1, 1, 0, 0, 1}

	s, err := Score(predicted, truth, 2, true)
	require.NoError(t, err)
	assert.InDelta(t, s.Macro.F1, s.Micro.F1, 1e-12)
	assert.InDelta(t, s.Macro.Precision, s.Micro.Precision, 1e-12)
	assert.InDelta(t, s.Macro.Recall, s.Micro.Recall, 1e-12)
}

func TestScoreBounds(t *testing.T) {
	cases := []struct {
		truth, predicted []Label
	}{
		{nil, nil},
		{[]Label{0, 0, 0}, []Label{0, 0, 0}},
		{[]Label{1, 2, 3}, []Label{3, 1, 2}},
		{[]Label{0, 1, 2, 3, 3}, []Label{0, 1, 2, 3, 3}},
		{[]Label{3, 3, 3}, []Label{0, 0, 0}},
	}

	in01 := func(p PRF) {
		for _, v := range []float64{p.Precision, p.Recall, p.F1} {
			assert.True(t, v >= 0 && v <= 1, "%v outside of [0, 1]", v)
		}
		if p.Precision == 0 && p.Recall == 0 {
			assert.Equal(t, 0.0, p.F1)
		}
	}

	for _, c := range cases {
		for _, excl := range []bool{true, false} {
			s, err := Score(c.predicted, c.truth, 4, excl)
			require.NoError(t, err)

			for _, r := range s.Rows {
				in01(r.PRF)
			}
			in01(s.Macro)
			in01(s.Micro)
		}
	}
}

func TestScoreErrors(t *testing.T) {
	_, err := Score([]Label{0}, []Label{0, 1}, 2, true)
	assert.True(t, IsInvalidInput(err))

	_, err = Score([]Label{0, 2}, []Label{0, 1}, 2, true)
	assert.True(t, IsInvalidInput(err))

	_, err = Score([]Label{0, -1}, []Label{0, 1}, 2, true)
	assert.True(t, IsInvalidInput(err))

	_, err = Score(nil, nil, 0, true)
	assert.Equal(t, ErrNoClasses, err)
}

func TestOneHotEquivalent(t *testing.T) {
	truth := []Label{0, 1, 1, 2, 0}
	oneHot := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 1, 0}, {0, 0, 1}, {1, 0, 0}}
	predicted := []Label{0, 1, 2, 2, 1}

	converted, err := FromOneHot(oneHot)
	require.NoError(t, err)
	assert.Equal(t, truth, converted)

	a, err := Score(predicted, truth, 3, true)
	require.NoError(t, err)
	b, err := Score(predicted, converted, 3, true)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = FromOneHot([][]float64{{}})
	assert.True(t, IsInvalidInput(err))
}
