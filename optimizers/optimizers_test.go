package optimizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientDescent(t *testing.T) {
	ws := []float64{1, 1, 1}
	gs := []float64{0.5, -2, 100}

	opt, err := ByName("")
	require.NoError(t, err)
	opt.Run(len(ws), func(i int) float64 { return gs[i] }, func(i int, v float64) { ws[i] += v }, 0.1)
	assert.InDeltaSlice(t, []float64{0.95, 1.2, -9}, ws, 1e-9)

	ws = []float64{1, 1, 1}
	opt, err = ByName("sgd-clip")
	require.NoError(t, err)
	opt.Run(len(ws), func(i int) float64 { return gs[i] }, func(i int, v float64) { ws[i] += v }, 0.1)
	assert.InDeltaSlice(t, []float64{0.95, 1.2, 0.5}, ws, 1e-9)

	_, err = ByName("adam")
	assert.Error(t, err)
	assert.Equal(t, []string{"sgd", "sgd-clip"}, Names())
}
