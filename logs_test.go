package relclass

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2020, 3, 4, 5, 6, 7, 890000000, time.UTC)

func TestFormatResult(t *testing.T) {
	status := Result{
		Phase: Training,
		Time:  stamp,
		Epoch: 3,
		Batch: 200,
		Loss:  0.12345,
		PRF:   PRF{0.5, 0.25, 1.0 / 3},
	}
	assert.Equal(t,
		"train: 2020-03-04 05:06:07.890000 epoch:   3, batch:  200, loss: 0.123, p: 50.000%, r: 25.000%, f1: 33.333%",
		FormatResult(status))

	test := Result{Phase: Evaluating, Time: stamp, Epoch: 12, Loss: 2, PRF: PRF{1, 1, 1}}
	assert.Equal(t,
		"test : 2020-03-04 05:06:07.890000 epoch:  12, loss: 2.000, p: 100.000%, r: 100.000%, f1: 100.000%",
		FormatResult(test))

	row := ConfusionRow{Class: 1, PRF: PRF{1, 0.5, 2.0 / 3}}
	assert.Equal(t, "rel:  1_born  , p: 100.000%, r: 50.000%, f1: 66.667%", FormatRelation(row, "born"))
}

func TestWriteAnalysis(t *testing.T) {
	var metrics, analysis bytes.Buffer
	l := NewLogs(&metrics, &analysis)

	s, err := Score([]Label{0, 1, 2, 2, 1}, []Label{0, 1, 1, 2, 0}, 3, true)
	require.NoError(t, err)

	res := Result{Phase: Evaluating, Time: stamp, PRF: s.Macro, Summary: s}
	wrong := []WrongInstance{{TruthName: "born_in", PredictedName: "lives_in", Text: "a b"}}

	require.NoError(t, l.WriteAnalysis(res, relations, wrong))

	lines := strings.Split(strings.TrimSuffix(analysis.String(), "\n"), "\n")
	require.Len(t, lines, 1+3+1+1)
	assert.Equal(t, FormatResult(res), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "rel:  0_NA    ,"))
	assert.True(t, strings.HasPrefix(lines[2], "rel:  1_born_in,"))
	assert.Equal(t, "born_in\tlives_in\ta b", lines[4])
	assert.Equal(t, strings.Repeat("-", 80), lines[5])

	assert.Zero(t, metrics.Len())
}

func TestOpenLogs(t *testing.T) {
	fs := afero.NewMemMapFs()

	for i := 0; i < 2; i++ {
		l, err := OpenLogs(fs, "res")
		require.NoError(t, err)
		require.NoError(t, l.WriteResult(Result{Phase: Evaluating, Time: stamp, Epoch: i}))
		require.NoError(t, l.Close())
	}

	bs, err := afero.ReadFile(fs, filepath.Join("res", MetricsFile))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(bs), "\n"), "reopening appends")

	ok, err := afero.Exists(fs, filepath.Join("res", AnalysisFile))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = OpenLogs(afero.NewReadOnlyFs(afero.NewMemMapFs()), "res")
	assert.True(t, IsResourceUnavailable(err))
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteFailure(t *testing.T) {
	l := NewLogs(failWriter{}, failWriter{})

	err := l.WriteResult(Result{})
	assert.True(t, IsResourceUnavailable(err))
	assert.Contains(t, err.Error(), "disk full")

	err = l.WriteAnalysis(Result{}, nil, nil)
	assert.True(t, IsResourceUnavailable(err))
}
