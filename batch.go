package relclass

// Instance is a single sentence with its two marked entities. Pos1 and Pos2 give the offset of
// each token relative to the first and second entity, respectively. E1 and E2 are token indexes
// of the entities, or -1 if unknown.
type Instance struct {
	X    []int
	Pos1 []int
	Pos2 []int
	E1   int
	E2   int
}

// Bag is a group of instances sharing the same entity pair, labelled as a whole.
type Bag struct {
	Instances []Instance
	Y         Label
}

// Batch is the unit handed to a Model. All per-example fields are aligned.
//
// For single-instance batches, X, Pos1, Pos2, E1 and E2 each have one entry per label in Y, and
// Offsets is nil.
//
// For bagged batches, X, Pos1, Pos2, E1 and E2 are a flat arena holding every instance of every
// bag, in bag order, and Offsets holds len(Y)+1 entries: bag i occupies the arena rows
// [Offsets[i], Offsets[i+1]).
type Batch struct {
	X    [][]int
	Pos1 [][]int
	Pos2 [][]int
	E1   []int
	E2   []int

	Y []Label

	Offsets []int
}

// NewBatch builds a single-instance Batch.
func NewBatch(insts []Instance, ys []Label) (*Batch, error) {
	if len(insts) != len(ys) {
		return nil, InputErrorf("%d instances but %d labels", len(insts), len(ys))
	}

	b := &Batch{Y: ys}
	for _, in := range insts {
		b.appendInstance(in)
	}

	return b, nil
}

// FlattenBags builds a bagged Batch, laying out every instance of every bag into a single arena
// and recording where each bag starts.
func FlattenBags(bags []Bag) *Batch {
	b := &Batch{
		Y:       make([]Label, len(bags)),
		Offsets: make([]int, 1, len(bags)+1),
	}

	total := 0
	for i, bag := range bags {
		b.Y[i] = bag.Y
		for _, in := range bag.Instances {
			b.appendInstance(in)
		}

		total += len(bag.Instances)
		b.Offsets = append(b.Offsets, total)
	}

	return b
}

func (b *Batch) appendInstance(in Instance) {
	b.X = append(b.X, in.X)
	b.Pos1 = append(b.Pos1, in.Pos1)
	b.Pos2 = append(b.Pos2, in.Pos2)
	b.E1 = append(b.E1, in.E1)
	b.E2 = append(b.E2, in.E2)
}

// Len returns the number of labelled examples (instances or bags) in the Batch.
func (b *Batch) Len() int {
	return len(b.Y)
}

// Bagged returns whether the Batch holds bags rather than single instances.
func (b *Batch) Bagged() bool {
	return b.Offsets != nil
}

// Rows returns the number of rows in the arena.
func (b *Batch) Rows() int {
	return len(b.X)
}

// Bag returns the arena range [start, end) of bag i. For single-instance batches, it is [i, i+1).
func (b *Batch) Bag(i int) (start, end int) {
	if !b.Bagged() {
		return i, i + 1
	}

	return b.Offsets[i], b.Offsets[i+1]
}

// Validate checks that every field of the Batch is aligned.
func (b *Batch) Validate() error {
	rows := len(b.X)
	if len(b.Pos1) != rows || len(b.Pos2) != rows || len(b.E1) != rows || len(b.E2) != rows {
		return InputErrorf("batch fields are not aligned (x: %d, pos1: %d, pos2: %d, e1: %d, e2: %d)",
			rows, len(b.Pos1), len(b.Pos2), len(b.E1), len(b.E2))
	}

	if !b.Bagged() {
		if rows != len(b.Y) {
			return InputErrorf("batch has %d instances but %d labels", rows, len(b.Y))
		}
		return nil
	}

	if len(b.Offsets) != len(b.Y)+1 {
		return InputErrorf("batch has %d bag offsets for %d bags", len(b.Offsets), len(b.Y))
	} else if b.Offsets[0] != 0 || b.Offsets[len(b.Offsets)-1] != rows {
		return InputErrorf("bag offsets do not cover the %d arena rows", rows)
	}

	for i := 1; i < len(b.Offsets); i++ {
		if b.Offsets[i] < b.Offsets[i-1] {
			return InputErrorf("bag offsets decrease at bag %d", i-1)
		}
	}

	return nil
}

// Locate returns the index of the first position feature equal to marker, or -1 if there is
// none. Position features hold each token's offset from an entity, shifted so that the entity
// itself has the value marker.
func Locate(pos []int, marker int) int {
	for i, p := range pos {
		if p == marker {
			return i
		}
	}

	return -1
}
