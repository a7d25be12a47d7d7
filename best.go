package relclass

import (
	"math"
)

// Criterion picks which F1 the best-epoch tracker compares.
type Criterion int

const (
	// CriterionMacro compares macro-averaged F1. It is the default.
	CriterionMacro Criterion = iota

	// CriterionMicro compares micro-averaged F1.
	CriterionMicro
)

func (c Criterion) String() string {
	if c == CriterionMicro {
		return "micro"
	}
	return "macro"
}

// F1 returns the F1 of the Summary that the Criterion compares.
func (c Criterion) F1(s *Summary) float64 {
	if c == CriterionMicro {
		return s.Micro.F1
	}
	return s.Macro.F1
}

// EpochResult is everything produced by evaluating one epoch on the held-out set.
type EpochResult struct {
	Epoch   int
	Loss    float64
	Summary *Summary

	Predicted []Label
	Truth     []Label
	Probs     [][]float64
}

// Best retains the EpochResult with the highest F1 seen so far in a run. The zero value is not
// usable; use NewBest.
type Best struct {
	crit Criterion
	f1   float64
	held *EpochResult
}

// NewBest returns a tracker that has not seen any epoch. Its F1 starts at negative infinity, so
// the first epoch offered is always an improvement.
func NewBest(crit Criterion) *Best {
	return &Best{crit: crit, f1: math.Inf(-1)}
}

// Offer replaces the held result if and only if r has a strictly higher F1, returning whether it
// did. On ties the earlier epoch is kept.
func (b *Best) Offer(r *EpochResult) bool {
	f := b.crit.F1(r.Summary)
	if !(f > b.f1) {
		return false
	}

	b.f1 = f
	b.held = r
	return true
}

// Held returns the best EpochResult so far, or nil if none has been offered.
func (b *Best) Held() *EpochResult {
	return b.held
}

// F1 returns the best F1 so far.
func (b *Best) F1() float64 {
	return b.f1
}

// Criterion returns the Criterion the tracker was created with.
func (b *Best) Criterion() Criterion {
	return b.crit
}
