package relclass

import (
	"github.com/montanaflynn/stats"
)

// PRF is a precision, recall and F1 triple, each in [0, 1].
type PRF struct {
	Precision float64
	Recall    float64
	F1        float64
}

// NewPRF derives precision, recall and F1 from raw counts. Any zero denominator gives zero rather
// than NaN, so that empty classes can be averaged safely.
func NewPRF(tp, fp, fn int) PRF {
	var p PRF
	if tp+fp > 0 {
		p.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		p.Recall = float64(tp) / float64(tp+fn)
	}

	p.F1 = f1(p.Precision, p.Recall)
	return p
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// ConfusionRow holds the counts for a single class, along with the metrics derived from them.
type ConfusionRow struct {
	Class Label
	TP    int
	FP    int
	FN    int
	PRF
}

// Summary is the result of scoring one full pass over a test set.
type Summary struct {
	// Rows holds one entry for every class, with Rows[c].Class == c
	Rows []ConfusionRow

	// Macro is the mean of the per-class metrics over the selected classes
	Macro PRF

	// Micro is computed once from the counts pooled over the selected classes
	Micro PRF

	// ExcludeNegative reports whether class 0 was left out of Macro and Micro
	ExcludeNegative bool
}

// Selected returns the rows that contribute to the averages.
func (s *Summary) Selected() []ConfusionRow {
	if s.ExcludeNegative && len(s.Rows) > 0 {
		return s.Rows[1:]
	}
	return s.Rows
}

// ClassNum returns the number of classes scored.
func (s *Summary) ClassNum() int {
	return len(s.Rows)
}

// Score builds a Summary from whole-epoch predictions and true labels. If excludeNegative is
// true, class 0 is left out of both the macro and the micro averages, although its row is still
// present in Rows. Examples whose true label is class 0 then only count against class 0.
//
// Score returns an InputError if the two sequences differ in length or if any label is outside of
// [0, classNum).
func Score(predicted, truth []Label, classNum int, excludeNegative bool) (*Summary, error) {
	if classNum < 1 {
		return nil, ErrNoClasses
	} else if len(predicted) != len(truth) {
		return nil, InputErrorf("%d predictions for %d true labels", len(predicted), len(truth))
	}

	if err := checkLabels(predicted, classNum, "predicted"); err != nil {
		return nil, err
	} else if err := checkLabels(truth, classNum, "true"); err != nil {
		return nil, err
	}

	rows := make([]ConfusionRow, classNum)
	for c := range rows {
		rows[c].Class = Label(c)
	}

	for i := range predicted {
		p, t := predicted[i], truth[i]
		if p == t {
			rows[p].TP++
			continue
		}

		// a negative example isn't a relation instance, so it can't be a false positive of
		// another class
		if !(excludeNegative && t == Negative) {
			rows[p].FP++
		}
		rows[t].FN++
	}

	for c := range rows {
		r := &rows[c]
		r.PRF = NewPRF(r.TP, r.FP, r.FN)
	}

	s := &Summary{Rows: rows, ExcludeNegative: excludeNegative}

	var tp, fp, fn int
	var ps, rs, fs []float64
	for _, r := range s.Selected() {
		tp += r.TP
		fp += r.FP
		fn += r.FN

		ps = append(ps, r.Precision)
		rs = append(rs, r.Recall)
		fs = append(fs, r.F1)
	}

	s.Macro = PRF{mean(ps), mean(rs), mean(fs)}
	s.Micro = NewPRF(tp, fp, fn)

	return s, nil
}

// mean is zero for an empty selection
func mean(xs []float64) float64 {
	m, err := stats.Mean(stats.Float64Data(xs))
	if err != nil {
		return 0
	}
	return m
}
