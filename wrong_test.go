package relclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokens    = Lookup{0: "PAD", 1: "Obama", 2: "was", 3: "born", 4: "in", 5: "Hawaii"}
	relations = Lookup{0: "NA", 1: "born_in", 2: "lives_in"}
)

// sentences have entity 1 at token 0 and entity 2 at the last token
func wrongArgs(predicted, truth []Label, xs ...[]int) WrongArgs {
	args := WrongArgs{
		Predicted:       predicted,
		Truth:           truth,
		Tokens:          tokens,
		Relations:       relations,
		ExcludeNegative: true,
		Joiner:          " ",
	}

	for _, x := range xs {
		var p1, p2 []int
		for i := range x {
			p1 = append(p1, i)
			p2 = append(p2, i-(len(x)-1))
		}

		args.X = append(args.X, x)
		args.Pos1 = append(args.Pos1, p1)
		args.Pos2 = append(args.Pos2, p2)
	}

	return args
}

func TestExtractWrongRender(t *testing.T) {
	args := wrongArgs([]Label{2}, []Label{1}, []int{1, 2, 3, 4, 5})

	wrong, err := ExtractWrong(args)
	require.NoError(t, err)
	require.Len(t, wrong, 1)

	w := wrong[0]
	assert.Equal(t, "<e1>Obama</e1> was born in <e2>Hawaii</e2>", w.Text)
	assert.Equal(t, []string{"born_in", "lives_in", w.Text}, w.Fields())
	assert.Equal(t, "born_in\tlives_in\t"+w.Text, w.String())
	assert.Equal(t, 0, w.E1)
	assert.Equal(t, 4, w.E2)
	assert.Equal(t, 0, w.Missing)
}

func TestExtractWrongUnknownAndPadding(t *testing.T) {
	pad := 0
	args := wrongArgs([]Label{2}, []Label{1}, []int{1, 99, 5, 0, 0})
	args.Pos2 = nil
	args.Padding = &pad
	args.Joiner = ""

	wrong, err := ExtractWrong(args)
	require.NoError(t, err)
	require.Len(t, wrong, 1)

	assert.Equal(t, "<e1>Obama</e1>"+UnknownToken+"Hawaii", wrong[0].Text)
	assert.Equal(t, 1, wrong[0].Missing)
	assert.Equal(t, -1, wrong[0].E2)
}

func TestExtractWrongFilter(t *testing.T) {
	truth := []Label{0, 1, 1, 0, 2}
	predicted := []Label{0, 1, 0, 2, 1}
	x := []int{1, 5}

	args := wrongArgs(predicted, truth, x, x, x, x, x)

	wrong, err := ExtractWrong(args)
	require.NoError(t, err)

	// index 3 is wrong but has a negative true label; index 2 predicts negative and is kept
	var idx []int
	for _, w := range wrong {
		idx = append(idx, w.Index)
	}
	assert.Equal(t, []int{2, 4}, idx)

	args.ExcludeNegative = false
	wrong, err = ExtractWrong(args)
	require.NoError(t, err)
	assert.Len(t, wrong, 3)
}

func TestExtractWrongSorted(t *testing.T) {
	predicted := []Label{2, 0, 1, 2}
	truth := []Label{1, 1, 2, 1}
	x := []int{1, 5}

	args := wrongArgs(predicted, truth, x, x, x, x)

	wrong, err := ExtractWrong(args)
	require.NoError(t, err)
	require.Len(t, wrong, 4)

	var preds []Label
	var idx []int
	for _, w := range wrong {
		preds = append(preds, w.Predicted)
		idx = append(idx, w.Index)
	}
	assert.Equal(t, []Label{0, 1, 2, 2}, preds)
	assert.Equal(t, []int{1, 2, 0, 3}, idx, "label 2 entries keep their order")

	again, err := ExtractWrong(args)
	require.NoError(t, err)
	assert.Equal(t, wrong, again)
}

func TestExtractWrongErrors(t *testing.T) {
	args := wrongArgs([]Label{1}, []Label{1, 2}, []int{1}, []int{1})
	_, err := ExtractWrong(args)
	assert.True(t, IsInvalidInput(err))

	args = wrongArgs([]Label{1, 2}, []Label{2, 1}, []int{1})
	_, err = ExtractWrong(args)
	assert.True(t, IsInvalidInput(err))
}
