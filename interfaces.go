package relclass

import "io"

// Model is the capability set shared by every architecture. Implementations own their
// parameters; the epoch driver only calls Fit and Evaluate, never concurrently.
type Model interface {
	// Fit runs one optimisation step on the batch, returning the training loss. keepRate is the
	// dropout keep probability; 1 disables dropout.
	Fit(b *Batch, keepRate float64) (float64, error)

	// Evaluate scores the batch without changing any parameters. The returned Evaluation must
	// hold exactly one prediction per label in the batch.
	Evaluate(b *Batch) (Evaluation, error)
}

// Evaluation is the output of Model.Evaluate for one batch.
type Evaluation struct {
	Loss float64

	// Predicted holds one label per example in the batch
	Predicted []Label

	// Probs holds the class distribution for each example. It may be nil if the Model doesn't
	// produce probabilities.
	Probs [][]float64
}

// MultiInstance is implemented by Models that classify bags of instances rather than single
// sentences.
type MultiInstance interface {
	MultiInstance() bool
}

// IsMultiInstance returns whether the Model operates on bags.
func IsMultiInstance(m Model) bool {
	mi, ok := m.(MultiInstance)
	return ok && mi.MultiInstance()
}

// DataLoader supplies the training and held-out sets, already split into batches.
type DataLoader interface {
	TrainBatches(size int) ([]*Batch, error)
	TestBatches(size int) ([]*Batch, error)

	// MaxSentenceLen is the length used to size model inputs
	MaxSentenceLen() int
}

// Saver is implemented by Models that can serialize their parameters.
type Saver interface {
	Save(w io.Writer) error
}

// Checkpointer persists the model whenever a new best epoch is found.
type Checkpointer interface {
	Checkpoint(epoch int, r *EpochResult) error
}

// CurveWriter receives the class probabilities of each new best epoch, typically to draw a
// precision/recall curve.
type CurveWriter interface {
	WriteCurve(epoch int, probs [][]float64, truth []Label, excludeNegative bool) error
}
