package relclass

import (
	"strconv"
)

// Label identifies a relation class, in the range [0, classNum). Label 0 is conventionally the
// negative ("no relation") class.
type Label int

// Negative is the label of the "no relation" class.
const Negative Label = 0

// UnknownToken is substituted for any id that is missing from a Lookup while rendering.
const UnknownToken string = "UNK"

// ArgMax returns the index of the largest value. Ties go to the lowest index. ArgMax returns -1
// for an empty slice.
func ArgMax(values []float64) int {
	if len(values) == 0 {
		return -1
	}

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}

	return best
}

// FromOneHot converts one-hot (or probability) rows into index-form labels.
func FromOneHot(rows [][]float64) ([]Label, error) {
	ls := make([]Label, len(rows))
	for i, r := range rows {
		idx := ArgMax(r)
		if idx < 0 {
			return nil, InputErrorf("one-hot row %d is empty", i)
		}

		ls[i] = Label(idx)
	}

	return ls, nil
}

// checkLabels returns an InputError if any label is outside of [0, classNum).
func checkLabels(ls []Label, classNum int, what string) error {
	for i, l := range ls {
		if l < 0 || int(l) >= classNum {
			return InputErrorf("%s label %d at index %d is outside of [0, %d)", what, l, i, classNum)
		}
	}

	return nil
}

// Lookup maps integer ids (tokens, characters or relations) to their surface strings.
type Lookup map[int]string

// Get returns the string for the id, and whether it was present.
func (l Lookup) Get(id int) (string, bool) {
	s, ok := l[id]
	return s, ok
}

// Token returns the string for the id, or UnknownToken if it isn't present.
func (l Lookup) Token(id int) string {
	if s, ok := l[id]; ok {
		return s
	}

	return UnknownToken
}

// Name returns the relation name for the label. Labels absent from the table are named by their
// number.
func (l Lookup) Name(lb Label) string {
	if s, ok := l[int(lb)]; ok {
		return s
	}

	return strconv.Itoa(int(lb))
}
