// Package prcurve computes and draws precision/recall curves from predicted class probabilities.
package prcurve

import (
	"sort"

	rc "github.com/sharnoff/relclass"
)

// Error is a wrapper for the fixed errors of this package.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// ErrNoPositives is returned by Compute when no example has a true label among the ranked
// classes, so recall is undefined.
var ErrNoPositives = Error{"No examples of any ranked class"}

// Curve is a sequence of (recall, precision) points, in order of decreasing score threshold.
type Curve struct {
	Recall    []float64
	Precision []float64
}

// Len returns the number of points on the curve.
func (c Curve) Len() int {
	return len(c.Recall)
}

type scored struct {
	score    float64
	relevant bool
}

// Compute ranks every (example, class) score, highest first, and gives a point after each rank:
// the fraction of all true (example, class) pairs found so far, and the fraction of the ranked
// pairs that are true. If excludeNegative is set, scores for class 0 are not ranked and examples
// whose true label is 0 have no true pair.
//
// Recall never decreases along the curve, and reaches 1 at the last point. An empty test set, or
// one with only negative examples when excludeNegative is set, gives ErrNoPositives.
func Compute(probs [][]float64, truth []rc.Label, excludeNegative bool) (Curve, error) {
	if len(probs) != len(truth) {
		return Curve{}, rc.InputErrorf("%d probability rows for %d true labels", len(probs), len(truth))
	}

	first := 0
	if excludeNegative {
		first = 1
	}

	var ranked []scored
	positives := 0
	for i, row := range probs {
		if int(truth[i]) >= len(row) || truth[i] < 0 {
			return Curve{}, rc.InputErrorf("true label %d of example %d has no probability (%d classes)", truth[i], i, len(row))
		}

		if int(truth[i]) >= first {
			positives++
		}

		for c := first; c < len(row); c++ {
			ranked = append(ranked, scored{row[c], rc.Label(c) == truth[i]})
		}
	}

	if positives == 0 {
		return Curve{}, ErrNoPositives
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	c := Curve{
		Recall:    make([]float64, len(ranked)),
		Precision: make([]float64, len(ranked)),
	}

	tp := 0
	for k, s := range ranked {
		if s.relevant {
			tp++
		}

		c.Recall[k] = float64(tp) / float64(positives)
		c.Precision[k] = float64(tp) / float64(k+1)
	}

	return c, nil
}

// AUC returns the area under the curve, by the trapezoidal rule over recall. The curve is taken
// to start at recall 0 with the precision of its first point.
func (c Curve) AUC() float64 {
	if c.Len() == 0 {
		return 0
	}

	var area float64
	prevR, prevP := 0.0, c.Precision[0]
	for i, r := range c.Recall {
		p := c.Precision[i]
		area += (r - prevR) * (p + prevP) / 2
		prevR, prevP = r, p
	}

	return area
}
