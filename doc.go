// Package relclass trains and evaluates relation classifiers: models that, given a sentence with
// two marked entities, predict which relation (if any) holds between them. It provides the
// scoring engine and the epoch-driven training loop. Models themselves are pluggable.
//
// For brevity, relclass is abbreviated 'rc'.
//
// Models
//
// Every architecture satisfies the same small interface:
//
//		type Model interface {
//			Fit(b *rc.Batch, keepRate float64) (float64, error)
//			Evaluate(b *rc.Batch) (rc.Evaluation, error)
//		}
//
// Architectures that classify bags of sentences (all sharing an entity pair) additionally
// implement MultiInstance. Bags reach the Model as a flat arena of instances plus a table of
// per-bag offsets; see FlattenBags. The subpackage "models" registers the available
// architectures by name.
//
// Scoring
//
// Score takes whole-epoch predictions and true labels and produces a Summary: a ConfusionRow
// (TP, FP, FN and the derived precision, recall and F1) for every class, together with macro and
// micro averages over the selected classes. Relation extraction normally excludes the negative
// class (label 0) from the averages:
//
//		s, err := rc.Score(predicted, truth, classNum, true)
//		if err != nil {
//			return err
//		}
//		fmt.Println(s.Macro.F1, s.Micro.F1)
//
// Malformed input gives an InputError, which can be checked for with IsInvalidInput.
//
// Training
//
// Run drives a full training run. Each epoch, it fits the Model on every training batch (sending a
// status update every StatusEvery batches), then evaluates on the full test set and offers the
// result to a Best tracker:
//
//		logs, err := rc.OpenLogs(afero.NewOsFs(), resultDir)
//		if err != nil {
//			return err
//		}
//		defer logs.Close()
//
//		best, err := rc.Run(rc.RunArgs{
//			Model:        model,
//			Data:         loader,
//			Logs:         logs,
//			Checkpointer: &rc.DirCheckpointer{Fs: fs, Dir: resultDir, Model: model.(rc.Saver)},
//			Epochs:       100,
//			BatchSize:    512,
//			KeepRate:     0.5,
//			Tokens:       id2token,
//			Relations:    id2rel,
//		})
//
// Whenever the tracked F1 strictly improves, Run writes the per-class breakdown and the rendered
// misclassified examples (see ExtractWrong) to the analysis log, hands the probabilities to the
// CurveWriter if there is one, and asks the Checkpointer to save the Model. Every status update
// and every epoch is appended to the metrics log regardless.
//
// Run is entirely sequential. Errors writing logs or checkpoints are ResourceErrors and stop the
// run; nothing is retried.
package relclass
