// Package dataset loads relation classification data from a directory and serves it in batches.
//
// A data directory holds:
//
//	id2token.tsv   (or id2char.tsv)  columns "id", "token"
//	id2rel.tsv                       columns "id", "name"; id 0 is the negative class
//	train.jsonl
//	test.jsonl
//
// Each line of a split is a JSON object that is either a single instance:
//
//	{"x": [4, 9, 2], "pos1": [...], "pos2": [...], "e1": 0, "e2": 2, "y": 3}
//
// or a bag of instances sharing an entity pair:
//
//	{"bag": [{"x": [...], "e1": 0, "e2": 2}, ...], "y": 3}
//
// "y" is either the relation index or a one-hot array. Either of "e1" and "pos1" (and likewise
// "e2" and "pos2") may be omitted; the missing one is derived from the other, with the entity
// itself at position value Options.PositionOffset.
package dataset

import (
	"math/rand"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	rc "github.com/sharnoff/relclass"
)

// The files making up a data directory
const (
	TokenFile    string = "id2token.tsv"
	CharFile     string = "id2char.tsv"
	RelationFile string = "id2rel.tsv"
	TrainFile    string = "train.jsonl"
	TestFile     string = "test.jsonl"
)

// DefaultPositionOffset is the position feature value at an entity, if not otherwise given.
const DefaultPositionOffset int = 100

// Options control how a data directory is read.
type Options struct {
	// Char selects the character table instead of the token table
	Char bool

	// PositionOffset is the position feature value at an entity. Zero is replaced with
	// DefaultPositionOffset.
	PositionOffset int

	// Seed seeds the shuffling of the training set
	Seed int64

	// Progress shows a progress bar while decoding the splits
	Progress bool
}

// Dataset is an in-memory data directory. It implements rc.DataLoader.
type Dataset struct {
	Tokens    rc.Lookup
	Relations rc.Lookup

	Train []rc.Bag
	Test  []rc.Bag

	opts   Options
	bagged bool
	maxLen int
	vocab  int
	rng    *rand.Rand
}

// Load reads the data directory at dir. Malformed split lines give an rc.InputError naming the
// file and line.
func Load(fs afero.Fs, dir string, opts Options) (*Dataset, error) {
	if opts.PositionOffset == 0 {
		opts.PositionOffset = DefaultPositionOffset
	}

	d := &Dataset{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}

	tokenFile := TokenFile
	if opts.Char {
		tokenFile = CharFile
	}

	var err error
	if d.Tokens, err = ReadTokens(fs, filepath.Join(dir, tokenFile)); err != nil {
		return nil, err
	} else if d.Relations, err = ReadRelations(fs, filepath.Join(dir, RelationFile)); err != nil {
		return nil, err
	} else if len(d.Relations) == 0 {
		return nil, errors.Errorf("%s has no relations", RelationFile)
	}

	for id := range d.Tokens {
		if id+1 > d.vocab {
			d.vocab = id + 1
		}
	}

	var trainBagged, testBagged bool
	if d.Train, trainBagged, err = d.readSplit(fs, filepath.Join(dir, TrainFile)); err != nil {
		return nil, err
	} else if d.Test, testBagged, err = d.readSplit(fs, filepath.Join(dir, TestFile)); err != nil {
		return nil, err
	}

	if len(d.Train) != 0 && len(d.Test) != 0 && trainBagged != testBagged {
		return nil, rc.InputErrorf("%s and %s must both hold bags or both hold instances", TrainFile, TestFile)
	}
	d.bagged = trainBagged || testBagged

	return d, nil
}

// readSplit decodes every line of a split file, returning whether it holds bags
func (d *Dataset) readSplit(fs afero.Fs, path string) ([]rc.Bag, bool, error) {
	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, false, errors.Wrapf(err, "Failed to read %q", path)
	}

	name := filepath.Base(path)
	lines, nums := splitLines(bs)
	bags := make([]rc.Bag, len(lines))

	var bagged bool
	err = each(len(lines), "Loading "+name, d.opts.Progress, func(i int) error {
		p, err := parseLine(lines[i], len(d.Relations), d.opts.PositionOffset)
		if err != nil {
			return rc.InputErrorf("%s line %d: %v", name, nums[i], err)
		}

		if i == 0 {
			bagged = p.bagged
		} else if p.bagged != bagged {
			return rc.InputErrorf("%s line %d: mixes bags and single instances", name, nums[i])
		}

		for _, in := range p.bag.Instances {
			if len(in.X) > d.maxLen {
				d.maxLen = len(in.X)
			}
		}

		bags[i] = p.bag
		return nil
	})

	if err != nil {
		return nil, false, err
	}

	return bags, bagged, nil
}

// ClassNum returns the number of relation classes.
func (d *Dataset) ClassNum() int {
	return len(d.Relations)
}

// VocabSize returns one more than the largest token id.
func (d *Dataset) VocabSize() int {
	return d.vocab
}

// Bagged returns whether the splits hold bags.
func (d *Dataset) Bagged() bool {
	return d.bagged
}

// PositionOffset returns the position feature value at an entity.
func (d *Dataset) PositionOffset() int {
	return d.opts.PositionOffset
}

// MaxSentenceLen returns the length of the longest sentence in either split.
func (d *Dataset) MaxSentenceLen() int {
	return d.maxLen
}

// TrainBatches shuffles the training set and splits it into batches of at most size examples.
// Each call gives a new order; the sequence of orders is fixed by Options.Seed.
func (d *Dataset) TrainBatches(size int) ([]*rc.Batch, error) {
	if size < 1 {
		return nil, rc.ErrBadBatchSize
	}

	return d.batches(d.Train, d.rng.Perm(len(d.Train)), size)
}

// TestBatches splits the test set, in file order, into batches of at most size examples.
func (d *Dataset) TestBatches(size int) ([]*rc.Batch, error) {
	if size < 1 {
		return nil, rc.ErrBadBatchSize
	}

	order := make([]int, len(d.Test))
	for i := range order {
		order[i] = i
	}

	return d.batches(d.Test, order, size)
}

func (d *Dataset) batches(split []rc.Bag, order []int, size int) ([]*rc.Batch, error) {
	var out []*rc.Batch
	for start := 0; start < len(order); start += size {
		end := start + size
		if end > len(order) {
			end = len(order)
		}

		bags := make([]rc.Bag, end-start)
		for i, idx := range order[start:end] {
			bags[i] = split[idx]
		}

		if d.bagged {
			out = append(out, rc.FlattenBags(bags))
			continue
		}

		insts := make([]rc.Instance, len(bags))
		ys := make([]rc.Label, len(bags))
		for i, b := range bags {
			insts[i] = b.Instances[0]
			ys[i] = b.Y
		}

		b, err := rc.NewBatch(insts, ys)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}

	return out, nil
}
