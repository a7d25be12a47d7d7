package prcurve

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rc "github.com/sharnoff/relclass"
)

var (
	probs = [][]float64{
		{0.1, 0.8, 0.1},
		{0.7, 0.2, 0.1},
		{0.2, 0.3, 0.5},
		{0.3, 0.3, 0.4},
	}
	truth = []rc.Label{1, 0, 2, 1}
)

func TestCompute(t *testing.T) {
	c, err := Compute(probs, truth, true)
	require.NoError(t, err)

	// 4 examples with 2 ranked classes each
	require.Equal(t, 8, c.Len())

	for i := 1; i < c.Len(); i++ {
		assert.True(t, c.Recall[i] >= c.Recall[i-1], "recall decreased at %d", i)
	}
	assert.Equal(t, 1.0, c.Recall[c.Len()-1])

	// the top score (0.8) is a true pair
	assert.InDelta(t, 1.0/3, c.Recall[0], 1e-9)
	assert.Equal(t, 1.0, c.Precision[0])

	// 3 true pairs out of 8
	assert.InDelta(t, 3.0/8, c.Precision[c.Len()-1], 1e-9)

	auc := c.AUC()
	assert.True(t, auc > 0 && auc <= 1, "auc = %v", auc)

	all, err := Compute(probs, truth, false)
	require.NoError(t, err)
	assert.Equal(t, 12, all.Len())
	assert.Equal(t, 1.0, all.Recall[all.Len()-1])
}

func TestComputeErrors(t *testing.T) {
	_, err := Compute(probs, truth[:2], true)
	assert.True(t, rc.IsInvalidInput(err))

	_, err = Compute(probs[:1], []rc.Label{3}, true)
	assert.True(t, rc.IsInvalidInput(err))

	// only negatives
	_, err = Compute(probs[1:2], []rc.Label{0}, true)
	assert.Equal(t, ErrNoPositives, err)

	_, err = Compute(nil, nil, true)
	assert.Equal(t, ErrNoPositives, err)

	// negatives are positives of class 0 when it is ranked
	_, err = Compute(probs[1:2], []rc.Label{0}, false)
	assert.NoError(t, err)
}

func TestRender(t *testing.T) {
	c, err := Compute(probs, truth, true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "test", c))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.Error(t, Render(&buf, "empty", Curve{}))
}

func TestWriter(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := &Writer{Fs: fs, Dir: "out"}

	require.NoError(t, w.WriteCurve(3, probs, truth, true))

	ok, err := afero.Exists(fs, "out/prc_epoch3.png")
	require.NoError(t, err)
	assert.True(t, ok)

	// nothing to draw for a test set with only negatives
	require.NoError(t, w.WriteCurve(5, probs[1:2], []rc.Label{0}, true))
	ok, err = afero.Exists(fs, "out/prc_epoch5.png")
	require.NoError(t, err)
	assert.False(t, ok)

	ro := &Writer{Fs: afero.NewReadOnlyFs(fs), Dir: "out"}
	err = ro.WriteCurve(4, probs, truth, true)
	assert.True(t, rc.IsResourceUnavailable(err), "%v", err)
}

// negativeModel predicts the negative class for everything
type negativeModel struct{}

func (negativeModel) Fit(b *rc.Batch, keepRate float64) (float64, error) {
	return 1, nil
}

func (negativeModel) Evaluate(b *rc.Batch) (rc.Evaluation, error) {
	ev := rc.Evaluation{Loss: 1}
	for range b.Y {
		ev.Predicted = append(ev.Predicted, 0)
		ev.Probs = append(ev.Probs, []float64{0.8, 0.1, 0.1})
	}
	return ev, nil
}

type batches struct {
	train, test []*rc.Batch
}

func (l batches) TrainBatches(size int) ([]*rc.Batch, error) { return l.train, nil }
func (l batches) TestBatches(size int) ([]*rc.Batch, error)  { return l.test, nil }
func (l batches) MaxSentenceLen() int                        { return 1 }

func TestRunNegativeTestSet(t *testing.T) {
	inst := rc.Instance{X: []int{1}, Pos1: []int{0}, Pos2: []int{0}}

	train, err := rc.NewBatch([]rc.Instance{inst, inst}, []rc.Label{1, 2})
	require.NoError(t, err)
	test, err := rc.NewBatch([]rc.Instance{inst, inst}, []rc.Label{0, 0})
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	var metrics, analysis bytes.Buffer

	for _, l := range []batches{
		{train: []*rc.Batch{train}, test: []*rc.Batch{test}},
		{train: []*rc.Batch{train}},
	} {
		metrics.Reset()

		best, err := rc.Run(rc.RunArgs{
			Model:     negativeModel{},
			Data:      l,
			Logs:      rc.NewLogs(&metrics, &analysis),
			Curves:    &Writer{Fs: fs, Dir: "out"},
			Epochs:    3,
			BatchSize: 2,
			ClassNum:  3,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, best.Held().Epoch)
		assert.Equal(t, 3, strings.Count(metrics.String(), "test : "))
	}

	ok, err := afero.Exists(fs, "out")
	require.NoError(t, err)
	assert.False(t, ok, "no curve is drawn without positives")
}
