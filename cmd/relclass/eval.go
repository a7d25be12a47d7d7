package main

import (
	"fmt"
	"io"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	rc "github.com/sharnoff/relclass"
	"github.com/sharnoff/relclass/dataset"
	"github.com/sharnoff/relclass/models"
)

const defaultEvalBatchSize int = 512

func runEval(fs afero.Fs, log *zap.SugaredLogger, w io.Writer, cmd *evalCmd) (*rc.EpochResult, error) {
	manifest, err := rc.ReadManifest(fs, cmd.Checkpoint)
	if err != nil {
		return nil, err
	}

	f, err := rc.OpenModel(fs, cmd.Checkpoint)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := models.Load(manifest.Arch, f)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load checkpoint %q", cmd.Checkpoint)
	}

	ds, err := dataset.Load(fs, cmd.Data, dataset.Options{Char: cmd.Char})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load data from %q", cmd.Data)
	}

	if manifest.ClassNum != 0 && manifest.ClassNum != ds.ClassNum() {
		return nil, errors.Errorf("Checkpoint has %d relations but the data has %d", manifest.ClassNum, ds.ClassNum())
	}

	batchSize := cmd.BatchSize
	if batchSize < 1 {
		batchSize = defaultEvalBatchSize
	}

	log.Infow("evaluating", "arch", manifest.Arch, "epoch", manifest.Epoch, "test", humanize.Comma(int64(len(ds.Test))))

	res, err := rc.Test(m, ds, batchSize, ds.ClassNum(), !cmd.UseNeg)
	if err != nil {
		return nil, err
	}

	res.Epoch = manifest.Epoch

	s := res.Summary
	fmt.Fprintf(w, "epoch: %d, loss: %.3f, macro f1: %.3f%%, micro f1: %.3f%%\n",
		manifest.Epoch, res.Loss, s.Macro.F1*100, s.Micro.F1*100)
	for _, row := range s.Rows {
		fmt.Fprintln(w, rc.FormatRelation(row, ds.Relations.Name(row.Class)))
	}

	return res, nil
}
