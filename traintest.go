package relclass

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Phase is the state of the epoch driver. The two phases strictly alternate: every epoch trains
// on all of its batches before any of its evaluation begins.
type Phase int8

const (
	Training Phase = iota
	Evaluating
)

// String gives the prefix used for the Phase in the metrics log.
func (p Phase) String() string {
	if p == Training {
		return "train"
	}
	return "test "
}

// DefaultStatusEvery is the number of training batches between status updates, if
// RunArgs.StatusEvery is not set.
const DefaultStatusEvery int = 100

// Result is a wrapper for sending back the progress of training or testing.
type Result struct {
	Phase Phase
	Time  time.Time

	Epoch int

	// Batch is the 1-based index of the training batch. It is zero for test results.
	Batch int

	// Loss is the training loss of the batch for status updates, or the mean loss over all test
	// batches for test results.
	Loss float64

	// PRF holds the macro-averaged metrics
	PRF PRF

	// Summary is the full breakdown of a test result. It is nil for status updates.
	Summary *Summary

	// Improved reports whether the test result was a new best
	Improved bool
}

// RunArgs configures a training run.
type RunArgs struct {
	Model Model
	Data  DataLoader
	Logs  *Logs

	// Checkpointer is asked to save the Model after every new best epoch. It can be nil.
	Checkpointer Checkpointer

	// Curves receives the probabilities of every new best epoch. It can be nil.
	Curves CurveWriter

	Epochs    int
	BatchSize int

	// KeepRate is the dropout keep probability handed to Model.Fit
	KeepRate float64

	// StatusEvery is the number of training batches between status updates
	StatusEvery int

	// ClassNum is the number of relation classes. If zero, it is taken to be len(Relations).
	ClassNum int

	// IncludeNegative keeps class 0 in the headline metrics. Relation extraction normally
	// excludes it, so the default is to exclude it.
	IncludeNegative bool

	Criterion Criterion

	Tokens    Lookup
	Relations Lookup

	// PositionMarker is the position feature value at each entity, used to mark entities in the
	// analysis log
	PositionMarker int

	// Joiner is placed between tokens in the analysis log
	Joiner string

	// Padding, if non-nil, is trimmed from the end of sentences in the analysis log
	Padding *int

	// Update receives every status and test Result. It can be nil.
	Update func(Result)

	// Now gives the timestamps of Results. It defaults to time.Now.
	Now func() time.Time
}

// run is the state of a single call to Run
type run struct {
	args     RunArgs
	best     *Best
	phase    Phase
	multiIns bool
	classNum int
}

// Run trains args.Model for args.Epochs epochs, evaluating on the full test set after each one.
// It returns the best-epoch tracker once all epochs have completed, or the first error
// encountered. No error is retried; I/O failures on the logs or checkpoints are returned as
// ResourceErrors.
func Run(args RunArgs) (*Best, error) {
	// handle error cases and set defaults
	{
		if args.Model == nil {
			return nil, ErrNoModel
		} else if args.Data == nil {
			return nil, ErrNoData
		} else if args.Logs == nil {
			return nil, ErrNoLogs
		} else if args.BatchSize < 1 {
			return nil, ErrBadBatchSize
		}

		if args.ClassNum == 0 {
			args.ClassNum = len(args.Relations)
		}
		if args.ClassNum < 1 {
			return nil, ErrNoClasses
		}

		if args.StatusEvery < 1 {
			args.StatusEvery = DefaultStatusEvery
		}
		if args.KeepRate <= 0 {
			args.KeepRate = 1
		}
		if args.Update == nil {
			args.Update = func(r Result) {}
		}
		if args.Now == nil {
			args.Now = time.Now
		}
	}

	r := &run{
		args:     args,
		best:     NewBest(args.Criterion),
		phase:    Training,
		multiIns: IsMultiInstance(args.Model),
		classNum: args.ClassNum,
	}

	for epoch := 0; epoch < args.Epochs; epoch++ {
		r.phase = Training
		if err := r.train(epoch); err != nil {
			return r.best, errors.Wrapf(err, "Training failed on epoch %d", epoch)
		}

		r.phase = Evaluating
		if err := r.evaluate(epoch); err != nil {
			return r.best, errors.Wrapf(err, "Evaluation failed on epoch %d", epoch)
		}
	}

	return r.best, nil
}

func (r *run) excludeNegative() bool {
	return !r.args.IncludeNegative
}

func (r *run) train(epoch int) error {
	batches, err := r.args.Data.TrainBatches(r.args.BatchSize)
	if err != nil {
		return errors.Wrapf(err, "Failed to get training batches")
	}

	for i, b := range batches {
		iter := i + 1

		loss, err := r.args.Model.Fit(b, r.args.KeepRate)
		if err != nil {
			return errors.Wrapf(err, "Failed to fit batch %d", iter)
		}

		if !Every(r.args.StatusEvery)(iter) {
			continue
		}

		ev, err := r.args.Model.Evaluate(b)
		if err != nil {
			return errors.Wrapf(err, "Failed to evaluate batch %d", iter)
		}

		s, err := Score(ev.Predicted, b.Y, r.classNum, r.excludeNegative())
		if err != nil {
			return errors.Wrapf(err, "Failed to score batch %d", iter)
		}

		res := Result{
			Phase: r.phase,
			Time:  r.args.Now(),
			Epoch: epoch,
			Batch: iter,
			Loss:  loss,
			PRF:   s.Macro,
		}

		if err = r.args.Logs.WriteResult(res); err != nil {
			return err
		}
		r.args.Update(res)
	}

	return nil
}

// testPass is the concatenation of every test batch's outputs
type testPass struct {
	losses    []float64
	predicted []Label
	truth     []Label
	probs     [][]float64

	x, pos1, pos2 [][]int
}

func (r *run) collect() (*testPass, error) {
	batches, err := r.args.Data.TestBatches(r.args.BatchSize)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get test batches")
	}

	t := new(testPass)
	for i, b := range batches {
		ev, err := r.args.Model.Evaluate(b)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to evaluate test batch %d", i)
		} else if len(ev.Predicted) != b.Len() {
			return nil, InputErrorf("test batch %d has %d labels but %d predictions", i, b.Len(), len(ev.Predicted))
		}

		t.losses = append(t.losses, ev.Loss)
		t.predicted = append(t.predicted, ev.Predicted...)
		t.truth = append(t.truth, b.Y...)
		t.probs = append(t.probs, ev.Probs...)

		if !b.Bagged() {
			t.x = append(t.x, b.X...)
			t.pos1 = append(t.pos1, b.Pos1...)
			t.pos2 = append(t.pos2, b.Pos2...)
		}
	}

	return t, nil
}

func (r *run) evaluate(epoch int) error {
	t, err := r.collect()
	if err != nil {
		return err
	}

	s, err := Score(t.predicted, t.truth, r.classNum, r.excludeNegative())
	if err != nil {
		return err
	}

	loss, err := stats.Mean(stats.Float64Data(t.losses))
	if err != nil {
		loss = 0
	}

	er := &EpochResult{
		Epoch:     epoch,
		Loss:      loss,
		Summary:   s,
		Predicted: t.predicted,
		Truth:     t.truth,
		Probs:     t.probs,
	}

	res := Result{
		Phase:   r.phase,
		Time:    r.args.Now(),
		Epoch:   epoch,
		Loss:    loss,
		PRF:     s.Macro,
		Summary: s,
	}

	if r.best.Offer(er) {
		res.Improved = true
		if err = r.improved(res, er, t); err != nil {
			return err
		}
	}

	if err = r.args.Logs.WriteResult(res); err != nil {
		return err
	}
	r.args.Update(res)

	return nil
}

// improved does the bookkeeping for a new best epoch
func (r *run) improved(res Result, er *EpochResult, t *testPass) error {
	var wrong []WrongInstance

	// bag-level predictions can't be mapped back to a single sentence
	if !r.multiIns && len(t.x) == len(t.truth) {
		var err error
		wrong, err = ExtractWrong(WrongArgs{
			Predicted:       t.predicted,
			Truth:           t.truth,
			X:               t.x,
			Pos1:            t.pos1,
			Pos2:            t.pos2,
			Tokens:          r.args.Tokens,
			Relations:       r.args.Relations,
			ExcludeNegative: r.excludeNegative(),
			PositionMarker:  r.args.PositionMarker,
			Joiner:          r.args.Joiner,
			Padding:         r.args.Padding,
		})
		if err != nil {
			return errors.Wrapf(err, "Failed to extract wrong instances")
		}
	}

	if err := r.args.Logs.WriteAnalysis(res, r.args.Relations, wrong); err != nil {
		return err
	}

	if r.args.Curves != nil && len(t.probs) == len(t.truth) {
		if err := r.args.Curves.WriteCurve(er.Epoch, t.probs, t.truth, r.excludeNegative()); err != nil {
			return errors.Wrapf(err, "Failed to write PR curve")
		}
	}

	if r.args.Checkpointer != nil {
		if err := r.args.Checkpointer.Checkpoint(er.Epoch, er); err != nil {
			return errors.Wrapf(err, "Failed to save checkpoint")
		}
	}

	return nil
}

// Test scores the Model on every test batch once, without training or writing any logs. It is
// used to evaluate a loaded checkpoint.
func Test(m Model, data DataLoader, batchSize, classNum int, excludeNegative bool) (*EpochResult, error) {
	if m == nil {
		return nil, ErrNoModel
	} else if data == nil {
		return nil, ErrNoData
	} else if batchSize < 1 {
		return nil, ErrBadBatchSize
	}

	r := &run{
		args:     RunArgs{Model: m, Data: data, BatchSize: batchSize, IncludeNegative: !excludeNegative},
		classNum: classNum,
		phase:    Evaluating,
	}

	t, err := r.collect()
	if err != nil {
		return nil, err
	}

	s, err := Score(t.predicted, t.truth, classNum, excludeNegative)
	if err != nil {
		return nil, err
	}

	loss, err := stats.Mean(stats.Float64Data(t.losses))
	if err != nil {
		loss = 0
	}

	return &EpochResult{
		Loss:      loss,
		Summary:   s,
		Predicted: t.predicted,
		Truth:     t.truth,
		Probs:     t.probs,
	}, nil
}
