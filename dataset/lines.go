package dataset

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"

	rc "github.com/sharnoff/relclass"
)

type rawInstance struct {
	X    []int `json:"x"`
	Pos1 []int `json:"pos1"`
	Pos2 []int `json:"pos2"`
	E1   *int  `json:"e1"`
	E2   *int  `json:"e2"`
}

// rawLine is one line of a split file: either a single instance or a bag, with its label
type rawLine struct {
	rawInstance
	Bag []rawInstance   `json:"bag"`
	Y   json.RawMessage `json:"y"`
}

// label decodes y, which is either an index or a one-hot (or probability) array of length
// classNum.
func label(y json.RawMessage, classNum int) (rc.Label, error) {
	if len(y) == 0 {
		return 0, errors.Errorf("missing label")
	}

	var l rc.Label
	if y[0] == '[' {
		var row []float64
		if err := json.Unmarshal(y, &row); err != nil {
			return 0, errors.Wrapf(err, "bad one-hot label")
		} else if len(row) != classNum {
			return 0, errors.Errorf("one-hot label has %d entries, expected %d", len(row), classNum)
		}

		ls, err := rc.FromOneHot([][]float64{row})
		if err != nil {
			return 0, err
		}
		l = ls[0]
	} else if err := json.Unmarshal(y, &l); err != nil {
		return 0, errors.Wrapf(err, "bad label")
	}

	if l < 0 || int(l) >= classNum {
		return 0, errors.Errorf("label %d is outside of [0, %d)", l, classNum)
	}

	return l, nil
}

// entity resolves one entity of an instance from its index, its position features, or both,
// deriving whichever is missing.
func entity(x []int, e *int, pos []int, offset int, which string) (int, []int, error) {
	if pos != nil && len(pos) != len(x) {
		return 0, nil, errors.Errorf("pos%s has %d entries for %d tokens", which, len(pos), len(x))
	}

	if e == nil {
		if pos == nil {
			return 0, nil, errors.Errorf("entity %s needs e%s or pos%s", which, which, which)
		}

		idx := rc.Locate(pos, offset)
		if idx < 0 {
			return 0, nil, errors.Errorf("pos%s never marks the entity (no value %d)", which, offset)
		}
		return idx, pos, nil
	}

	if *e < 0 || *e >= len(x) {
		return 0, nil, errors.Errorf("e%s = %d is outside of the %d tokens", which, *e, len(x))
	}

	if pos == nil {
		pos = make([]int, len(x))
		for i := range pos {
			pos[i] = i - *e + offset
		}
	}

	return *e, pos, nil
}

func (raw rawInstance) instance(offset int) (rc.Instance, error) {
	if len(raw.X) == 0 {
		return rc.Instance{}, errors.Errorf("sentence is empty")
	}

	in := rc.Instance{X: raw.X}

	var err error
	if in.E1, in.Pos1, err = entity(raw.X, raw.E1, raw.Pos1, offset, "1"); err != nil {
		return in, err
	} else if in.E2, in.Pos2, err = entity(raw.X, raw.E2, raw.Pos2, offset, "2"); err != nil {
		return in, err
	}

	return in, nil
}

// parsed is a decoded line
type parsed struct {
	bag    rc.Bag
	bagged bool
}

func parseLine(line []byte, classNum, offset int) (parsed, error) {
	var raw rawLine
	if err := json.Unmarshal(line, &raw); err != nil {
		return parsed{}, errors.Wrapf(err, "bad JSON")
	}

	y, err := label(raw.Y, classNum)
	if err != nil {
		return parsed{}, err
	}

	p := parsed{bag: rc.Bag{Y: y}}

	if raw.Bag == nil {
		in, err := raw.instance(offset)
		if err != nil {
			return p, err
		}
		p.bag.Instances = []rc.Instance{in}
		return p, nil
	}

	if len(raw.X) != 0 {
		return p, errors.Errorf("line has both a bag and a sentence")
	} else if len(raw.Bag) == 0 {
		return p, errors.Errorf("bag is empty")
	}

	p.bagged = true
	p.bag.Instances = make([]rc.Instance, len(raw.Bag))
	for i, r := range raw.Bag {
		if p.bag.Instances[i], err = r.instance(offset); err != nil {
			return p, errors.Wrapf(err, "bag instance %d", i)
		}
	}

	return p, nil
}

// each calls f for every index in [0, n), showing a progress bar if asked to. It stops at the
// first error.
func each(n int, desc string, progress bool, f func(int) error) error {
	if !progress {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}

	var ferr error
	err := tqdm.With(iterators.Interval(0, n), desc, func(v interface{}) (brk bool) {
		if ferr = f(v.(int)); ferr != nil {
			return true
		}
		return
	})

	if ferr != nil {
		return ferr
	}
	return err
}

// splitLines returns the non-blank lines of a file, along with their 1-based line numbers
func splitLines(bs []byte) ([][]byte, []int) {
	var lines [][]byte
	var nums []int
	for i, l := range bytes.Split(bs, []byte("\n")) {
		if l = bytes.TrimSpace(l); len(l) != 0 {
			lines = append(lines, l)
			nums = append(nums, i+1)
		}
	}

	return lines, nums
}
