package relclass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func result(epoch int, macro, micro float64) *EpochResult {
	return &EpochResult{
		Epoch:   epoch,
		Summary: &Summary{Macro: PRF{F1: macro}, Micro: PRF{F1: micro}},
	}
}

func TestBestSequence(t *testing.T) {
	b := NewBest(CriterionMacro)
	assert.Nil(t, b.Held())

	var improved []int
	for i, f := range []float64{0.1, 0.5, 0.5, 0.3, 0.6} {
		if b.Offer(result(i, f, 0)) {
			improved = append(improved, i)
		}
	}

	assert.Equal(t, []int{0, 1, 4}, improved)
	assert.Equal(t, 4, b.Held().Epoch)
	assert.Equal(t, 0.6, b.F1())
}

func TestBestFirstEpochZero(t *testing.T) {
	b := NewBest(CriterionMacro)
	assert.True(t, b.Offer(result(0, 0, 0)), "an F1 of 0 still beats no epoch at all")
	assert.False(t, b.Offer(result(1, 0, 0)))
	assert.False(t, b.Offer(result(2, math.NaN(), 0)))
	assert.Equal(t, 0, b.Held().Epoch)
}

func TestBestMicro(t *testing.T) {
	b := NewBest(CriterionMicro)
	assert.Equal(t, "micro", b.Criterion().String())

	assert.True(t, b.Offer(result(0, 0.9, 0.1)))
	assert.False(t, b.Offer(result(1, 0.1, 0.1)))
	assert.True(t, b.Offer(result(2, 0.1, 0.2)))
	assert.Equal(t, 2, b.Held().Epoch)
}
