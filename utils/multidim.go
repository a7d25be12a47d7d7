// Package utils holds small helpers shared by the models.
package utils

import "github.com/pkg/errors"

// MultiDim maps points in an n-dimensional grid onto a flat slice.
//
// The first dimension varies fastest: with Dims [x, y], the point (i, j) is at index i + j*x.
//
// the fields are made public in order to allow exporting to JSON, but they should not actually be
// altered once it has been initialized
type MultiDim struct {
	// the width, height, depth, etc. of each dimension
	Dims []int `json:"dims"`

	// the number of values encapsulated by a 'set' of this dimension
	// -- Sizes[0] = Dims[0]; Sizes[end] = total size
	Sizes []int `json:"sizes"`
}

// NewMultiDim creates a new MultiDim. Every dimension must be at least 1.
func NewMultiDim(dims ...int) (*MultiDim, error) {
	if len(dims) == 0 {
		return nil, errors.Errorf("MultiDim needs at least one dimension")
	}

	m := &MultiDim{
		Dims:  append([]int(nil), dims...),
		Sizes: make([]int, len(dims)),
	}

	for i, d := range dims {
		if d < 1 {
			return nil, errors.Errorf("Dimension %d has size %d, must be >= 1", i, d)
		}

		if i == 0 {
			m.Sizes[0] = d
		} else {
			m.Sizes[i] = m.Sizes[i-1] * d
		}
	}

	return m, nil
}

// Index returns the index corresponding to the given point. The point must have the same number
// of dimensions as m.
func (m *MultiDim) Index(point ...int) int {
	index := point[0]
	for i := 1; i < len(m.Sizes); i++ {
		index += point[i] * m.Sizes[i-1]
	}

	return index
}

// Point returns the multi-dimensional point leading to the given index in the base array
//
// assumes that the given index will be in bounds
func (m *MultiDim) Point(index int) []int {
	p := make([]int, len(m.Dims))
	for i := len(p) - 1; i >= 1; i-- { // doesn't go to 0
		p[i] = index / m.Sizes[i-1]
		index = index % m.Sizes[i-1]
	}

	p[0] = index
	return p
}

// Size returns the total number of values in the grid.
func (m *MultiDim) Size() int {
	return m.Sizes[len(m.Sizes)-1]
}

func (m *MultiDim) Dim(d int) int {
	return m.Dims[d]
}
