package relclass

import (
	"sort"
	"strings"
)

// WrongArgs holds everything needed to render the misclassified examples of a test pass. X, Pos1
// and Pos2 must be aligned with Predicted and Truth; Pos1 and Pos2 may be nil, in which case
// entities are not marked.
type WrongArgs struct {
	Predicted []Label
	Truth     []Label

	X    [][]int
	Pos1 [][]int
	Pos2 [][]int

	Tokens    Lookup
	Relations Lookup

	// ExcludeNegative drops examples whose true label is the negative class. Examples predicted
	// as negative are kept.
	ExcludeNegative bool

	// PositionMarker is the position feature value found at the entity itself
	PositionMarker int

	// Joiner is placed between rendered tokens: " " for words, "" for characters
	Joiner string

	// Padding, if non-nil, is a token id that is dropped from the end of each sentence
	Padding *int
}

// WrongInstance is one rendered misclassification.
type WrongInstance struct {
	// Index is the position of the example in the test pass
	Index int

	Truth     Label
	Predicted Label

	TruthName     string
	PredictedName string

	Tokens []string
	E1, E2 int

	// Text is the reconstructed sentence, with entities marked
	Text string

	// Missing is the number of token ids that weren't in the Lookup
	Missing int
}

// Fields returns the tab-joinable fields of the record: true relation, predicted relation and the
// sentence text.
func (w WrongInstance) Fields() []string {
	return []string{w.TruthName, w.PredictedName, w.Text}
}

func (w WrongInstance) String() string {
	return strings.Join(w.Fields(), "\t")
}

// ExtractWrong renders every example where the prediction differs from the true label, sorted by
// predicted label. The sort is stable, so examples with the same predicted label keep their
// original order. Token ids absent from args.Tokens are rendered as UnknownToken.
func ExtractWrong(args WrongArgs) ([]WrongInstance, error) {
	n := len(args.Truth)
	if len(args.Predicted) != n {
		return nil, InputErrorf("%d predictions for %d true labels", len(args.Predicted), n)
	} else if len(args.X) != n {
		return nil, InputErrorf("%d sentences for %d true labels", len(args.X), n)
	} else if args.Pos1 != nil && len(args.Pos1) != n {
		return nil, InputErrorf("%d pos1 rows for %d true labels", len(args.Pos1), n)
	} else if args.Pos2 != nil && len(args.Pos2) != n {
		return nil, InputErrorf("%d pos2 rows for %d true labels", len(args.Pos2), n)
	}

	var wrong []WrongInstance
	for i := 0; i < n; i++ {
		if args.Predicted[i] == args.Truth[i] {
			continue
		} else if args.ExcludeNegative && args.Truth[i] == Negative {
			continue
		}

		wrong = append(wrong, args.render(i))
	}

	sort.SliceStable(wrong, func(i, j int) bool {
		return wrong[i].Predicted < wrong[j].Predicted
	})

	return wrong, nil
}

func (args WrongArgs) render(i int) WrongInstance {
	w := WrongInstance{
		Index:         i,
		Truth:         args.Truth[i],
		Predicted:     args.Predicted[i],
		TruthName:     args.Relations.Name(args.Truth[i]),
		PredictedName: args.Relations.Name(args.Predicted[i]),
		E1:            -1,
		E2:            -1,
	}

	ids := args.X[i]
	if args.Padding != nil {
		for len(ids) > 0 && ids[len(ids)-1] == *args.Padding {
			ids = ids[:len(ids)-1]
		}
	}

	w.Tokens = make([]string, len(ids))
	for j, id := range ids {
		tok, ok := args.Tokens.Get(id)
		if !ok {
			tok = UnknownToken
			w.Missing++
		}
		w.Tokens[j] = tok
	}

	if args.Pos1 != nil {
		w.E1 = Locate(args.Pos1[i], args.PositionMarker)
	}
	if args.Pos2 != nil {
		w.E2 = Locate(args.Pos2[i], args.PositionMarker)
	}

	marked := make([]string, len(w.Tokens))
	for j, tok := range w.Tokens {
		switch j {
		case w.E1:
			tok = "<e1>" + tok + "</e1>"
			if j == w.E2 {
				tok = "<e2>" + tok + "</e2>"
			}
		case w.E2:
			tok = "<e2>" + tok + "</e2>"
		}
		marked[j] = tok
	}

	w.Text = strings.Join(marked, args.Joiner)
	return w
}
