package main

import (
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	rc "github.com/sharnoff/relclass"
	"github.com/sharnoff/relclass/dataset"
	"github.com/sharnoff/relclass/models"
	"github.com/sharnoff/relclass/prcurve"
)

const defaultOut string = "result"

// resultDir gives the directory a run stores its logs, checkpoints and curves in
func resultDir(out, arch string, char bool) string {
	suffix := "w"
	if char {
		suffix = "c"
	}

	return filepath.Join(out, arch, arch+"_"+suffix)
}

func runTrain(fs afero.Fs, log *zap.SugaredLogger, cmd *trainCmd) (best *rc.Best, err error) {
	start := time.Now()

	settings, err := loadSettings(fs, cmd.Arch, cmd.Config, cmd)
	if err != nil {
		return nil, err
	}

	log.Infow("loading data", "dir", cmd.Data, "char", cmd.Char)
	ds, err := dataset.Load(fs, cmd.Data, dataset.Options{
		Char:     cmd.Char,
		Seed:     settings.Seed,
		Progress: cmd.Progress,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load data from %q", cmd.Data)
	}

	log.Infow("loaded data",
		"train", humanize.Comma(int64(len(ds.Train))),
		"test", humanize.Comma(int64(len(ds.Test))),
		"relations", ds.ClassNum(),
		"vocab", humanize.Comma(int64(ds.VocabSize())),
		"max_len", ds.MaxSentenceLen(),
		"bagged", ds.Bagged(),
	)

	m, err := models.New(cmd.Arch, settings, models.Shape{
		VocabSize:      ds.VocabSize(),
		ClassNum:       ds.ClassNum(),
		MaxSentenceLen: ds.MaxSentenceLen(),
		PositionOffset: ds.PositionOffset(),
	})
	if err != nil {
		return nil, err
	}

	out := cmd.Out
	if out == "" {
		out = defaultOut
	}
	dir := resultDir(out, cmd.Arch, cmd.Char)

	logs, err := rc.OpenLogs(fs, dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := logs.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var ckpt rc.Checkpointer
	if saver, ok := m.(rc.Saver); ok {
		ckpt = &rc.DirCheckpointer{Fs: fs, Dir: dir, Arch: cmd.Arch, Model: saver}
	} else {
		log.Warnw("model can't be saved, no checkpoints will be written", "arch", cmd.Arch)
	}

	joiner := " "
	if cmd.Char {
		joiner = ""
	}

	criterion := rc.CriterionMacro
	if cmd.Micro {
		criterion = rc.CriterionMicro
	}

	log.Infow("training", "arch", cmd.Arch, "epochs", settings.Epochs, "batch_size", settings.BatchSize, "out", dir)

	best, err = rc.Run(rc.RunArgs{
		Model:           m,
		Data:            ds,
		Logs:            logs,
		Checkpointer:    ckpt,
		Curves:          &prcurve.Writer{Fs: fs, Dir: dir, Title: cmd.Arch},
		Epochs:          settings.Epochs,
		BatchSize:       settings.BatchSize,
		KeepRate:        settings.KeepRate,
		StatusEvery:     settings.StatusEvery,
		ClassNum:        ds.ClassNum(),
		IncludeNegative: cmd.UseNeg,
		Criterion:       criterion,
		Tokens:          ds.Tokens,
		Relations:       ds.Relations,
		PositionMarker:  ds.PositionOffset(),
		Joiner:          joiner,
		Update:          logResult(log),
	})
	if err != nil {
		return best, err
	}

	if held := best.Held(); held != nil {
		log.Infow("finished",
			"best_epoch", held.Epoch,
			"criterion", best.Criterion().String(),
			"f1", best.F1(),
			"took", time.Since(start).Round(time.Millisecond).String(),
		)
	} else {
		log.Infow("finished without a best epoch", "took", time.Since(start).Round(time.Millisecond).String())
	}

	return best, nil
}

// logResult turns the results of a run into log lines
func logResult(log *zap.SugaredLogger) func(rc.Result) {
	return func(r rc.Result) {
		kvs := []interface{}{
			"epoch", r.Epoch,
			"loss", r.Loss,
			"p", r.PRF.Precision,
			"r", r.PRF.Recall,
			"f1", r.PRF.F1,
		}

		if r.Phase == rc.Training {
			log.Infow("train", append(kvs, "batch", r.Batch)...)
			return
		}

		log.Infow("test", append(kvs, "improved", r.Improved)...)
	}
}
